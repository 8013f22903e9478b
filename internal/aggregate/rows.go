package aggregate

import (
	"encoding/json"

	"tutoreval/domain/annotation"
	"tutoreval/domain/dataset"
	"tutoreval/internal/errors"

	"github.com/tidwall/gjson"
)

// ParseRows decodes a JSON array of flat objects into annotation rows,
// keeping each object's key order. Elements that are not objects are
// skipped; a document that is not a JSON array is rejected.
func ParseRows(data []byte) ([]annotation.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidInput("annotation input is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, errors.InvalidInput("annotation input must be a JSON array of objects")
	}

	rows := make([]annotation.Row, 0)
	doc.ForEach(func(_, element gjson.Result) bool {
		if !element.IsObject() {
			return true
		}
		row := annotation.Row{}
		element.ForEach(func(key, value gjson.Result) bool {
			row.Fields = append(row.Fields, annotation.Field{
				Key:   key.String(),
				Value: json.RawMessage(value.Raw),
			})
			return true
		})
		rows = append(rows, row)
		return true
	})
	return rows, nil
}

// RowsFromDataset converts tabular records into annotation rows, one field
// per column in header order. Empty cells are carried as JSON null so they
// behave like missing values during aggregation.
func RowsFromDataset(ds *dataset.Dataset) []annotation.Row {
	rows := make([]annotation.Row, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := annotation.Row{Fields: make([]annotation.Field, 0, len(ds.Columns))}
		for _, column := range ds.Columns {
			value, _ := ds.Field(i, column)
			raw := json.RawMessage("null")
			if value != "" {
				encoded, err := json.Marshal(value)
				if err != nil {
					continue
				}
				raw = encoded
			}
			row.Fields = append(row.Fields, annotation.Field{Key: column, Value: raw})
		}
		rows = append(rows, row)
	}
	return rows
}
