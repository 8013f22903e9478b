package dataset

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"tutoreval/adapters/excel"
	"tutoreval/domain/core"
	"tutoreval/domain/dataset"
	"tutoreval/internal/errors"

	"github.com/tidwall/gjson"
)

// LoadFile loads a dataset from .csv, .xlsx, .json (array of objects) or
// .jsonl. JSON values are kept in their text form.
func LoadFile(path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return excel.NewDataReader(path).ReadData()
	case ".json":
		return loadJSON(path)
	case ".jsonl":
		return loadJSONL(path)
	}
	return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, path))
}

func loadJSON(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s is not valid JSON", path))
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must hold a JSON array of objects", path))
	}

	ds := newNamed(path)
	doc.ForEach(func(_, element gjson.Result) bool {
		appendObject(ds, element)
		return true
	})
	return ds, nil
}

func loadJSONL(path string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer file.Close()

	ds := newNamed(path)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, errors.InvalidInput(fmt.Sprintf("%s:%d is not valid JSON", path, line))
		}
		appendObject(ds, gjson.Parse(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, nil
}

func appendObject(ds *dataset.Dataset, obj gjson.Result) {
	if !obj.IsObject() {
		return
	}
	record := make(dataset.Record)
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		ds.AddColumn(name)
		if value.Type != gjson.Null {
			record[name] = value.String()
		}
		return true
	})
	ds.Records = append(ds.Records, record)
}

func newNamed(path string) *dataset.Dataset {
	return &dataset.Dataset{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrDatasetFileNotFound, path))
	}
	return fmt.Errorf("failed to open %s: %w", path, err)
}

// Shuffle returns a copy of ds with its records in random order
func Shuffle(ds *dataset.Dataset, rng *rand.Rand) *dataset.Dataset {
	return ds.Subset(rng.Perm(ds.Len()))
}

// LabelDistribution counts the values of one column. Records without the
// column are counted under the empty string.
func LabelDistribution(ds *dataset.Dataset, field string) map[string]int {
	counts := make(map[string]int)
	for _, record := range ds.Records {
		counts[record[field]]++
	}
	return counts
}
