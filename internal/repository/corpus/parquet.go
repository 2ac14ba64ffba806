package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/sportspulse/internal/domain/document"
)

const parquetBatch = 512

// recordColumns holds leaf column indexes of the fields a record can carry; -1 when absent.
type recordColumns struct {
	id, title, text, fullContent, content int
	source, category, publishDate, url    int
}

func resolveRecordColumns(pf *parquet.File) (recordColumns, error) {
	cols := recordColumns{
		id: -1, title: -1, text: -1, fullContent: -1, content: -1,
		source: -1, category: -1, publishDate: -1, url: -1,
	}
	for i, path := range pf.Schema().Columns() {
		if len(path) != 1 {
			continue
		}
		switch path[0] {
		case "id":
			cols.id = i
		case "title":
			cols.title = i
		case "text":
			cols.text = i
		case "fullContent", "full_content":
			cols.fullContent = i
		case "content":
			cols.content = i
		case "source":
			cols.source = i
		case "category":
			cols.category = i
		case "publishDate", "publish_date":
			cols.publishDate = i
		case "url":
			cols.url = i
		}
	}
	if cols.text < 0 && cols.fullContent < 0 && cols.content < 0 {
		return cols, errors.New("no text, fullContent or content column")
	}
	return cols, nil
}

// readParquet reads one record per row. Nested columns are ignored.
func (l *Loader) readParquet(path string) ([]document.Document, Stats, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open parquet: %w", err)
	}
	cols, err := resolveRecordColumns(pf)
	if err != nil {
		return nil, Stats{}, err
	}

	c := l.newCollector()
	buf := make([]parquet.Row, parquetBatch)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, cols, buf, c); err != nil {
			return nil, c.stats, err
		}
	}

	docs, stats := c.result()
	return docs, stats, nil
}

func readRowGroup(rg parquet.RowGroup, cols recordColumns, buf []parquet.Row, c *collector) error {
	rows := parquet.NewRowGroupReader(rg)
	for {
		n, err := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			c.add(rowToRecord(buf[i], cols))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read rows: %w", err)
		}
	}
}

func rowToRecord(row parquet.Row, cols recordColumns) record {
	var r record
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.id:
			r.ID = v.String()
		case cols.title:
			r.Title = v.String()
		case cols.text:
			r.Text = v.String()
		case cols.fullContent:
			r.FullContent = v.String()
		case cols.content:
			r.Content = v.String()
		case cols.source:
			r.Source = v.String()
		case cols.category:
			r.Category = v.String()
		case cols.publishDate:
			r.PublishDate = v.String()
		case cols.url:
			r.URL = v.String()
		}
	}
	return r
}
