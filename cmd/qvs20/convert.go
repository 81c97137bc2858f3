package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/internal/csvsource"
	"github.com/shapestone/shape-qvs20/internal/fileio"
	"github.com/shapestone/shape-qvs20/pkg/qvs20"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

type convertOptions struct {
	output   string
	name     string
	comma    string
	columns  []string
	idColumn string
	infer    bool
}

func newConvertCmd(a *app) *cobra.Command {
	var o convertOptions
	cmd := &cobra.Command{
		Use:   "convert CSV",
		Short: "Convert a CSV file with a header line into a QVS20 table",
		Long: `Convert reads a CSV file whose first record holds the column names.
Every column is a String unless --type declares another type or --infer
picks the narrowest type accepting all its values. Values are checked
against the declared type. --id-column prepends a column of
random UUIDs.`,
		Example: `  qvs20 convert people.csv --type age=Integer --type born=Date -o people.qvs20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fileio.ReadFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if o.name == "" {
				o.name = tableName(args[0])
			}
			wopts, err := a.writerOptions()
			if err != nil {
				return err
			}
			var out bytes.Buffer
			n, err := convertCSV(bytes.NewReader(data), &out, o, wopts)
			if err != nil {
				return err
			}
			log.Infof("converted %d records from %s", n, args[0])
			return fileio.WriteFile(o.output, out.Bytes(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", fileio.Stdio, "output file, .zst compresses")
	f.StringVar(&o.name, "name", "", "table name (default: CSV file name without extension)")
	f.StringVar(&o.comma, "comma", ",", `CSV field separator, "auto" detects it`)
	f.BoolVar(&o.infer, "infer", false, "infer the type of columns without --type from their values")
	f.StringArrayVar(&o.columns, "type", nil, "column type as NAME=TYPE, repeatable")
	f.StringVar(&o.idColumn, "id-column", "", "prepend a column of generated UUIDs with this name")
	return cmd
}

// convertCSV converts CSV records into a QVS20 table written to w and
// returns the number of records written.
func convertCSV(r io.Reader, w io.Writer, o convertOptions, wopts qvs20.WriterOptions) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	var comma rune
	if o.comma == "auto" {
		comma = csvsource.SniffComma(sample(data))
		log.Debugf("detected separator %q", comma)
	} else {
		runes := []rune(o.comma)
		if len(runes) != 1 {
			return 0, fmt.Errorf("separator %q is not a single character", o.comma)
		}
		comma = runes[0]
	}

	header, records, err := csvsource.NewReaderWithOptions(bytes.NewReader(data), csvsource.Options{Comma: comma}).ReadAll()
	if err != nil {
		return 0, err
	}
	if header == nil {
		return 0, errors.New("CSV input is empty")
	}

	declared, err := parseColumnTypes(o.columns)
	if err != nil {
		return 0, err
	}
	var cols []types.Column
	if o.idColumn != "" {
		cols = append(cols, types.Column{Name: o.idColumn, Type: types.TypeString, Property: "uuid"})
	}
	for i, name := range header {
		dt, ok := declared[name]
		switch {
		case ok:
			delete(declared, name)
		case o.infer:
			dt = csvsource.InferType(column(records, i))
		default:
			dt = types.TypeString
		}
		cols = append(cols, types.Column{Name: name, Type: dt})
	}
	if len(declared) > 0 {
		missing := make([]string, 0, len(declared))
		for name := range declared {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return 0, fmt.Errorf("--type: %w %q", csvsource.ErrMissingColumn, missing[0])
	}

	wr, err := qvs20.NewWriterWithOptions(w, types.NewTable(o.name, types.DefaultRowDelimiter, cols...), wopts)
	if err != nil {
		return 0, err
	}
	offset := len(cols) - len(header)
	values := make([]types.Value, len(cols))
	for n, rec := range records {
		if o.idColumn != "" {
			values[0] = types.StringValue(uuid.NewString())
		}
		for i, field := range rec {
			v, err := types.ParseText(cols[offset+i].Type, []byte(field))
			if err != nil {
				return wr.Rows(), fmt.Errorf("record %d, column %q: %w", n+1, header[i], err)
			}
			values[offset+i] = v
		}
		if err := wr.WriteRow(types.NewRow(values...)); err != nil {
			return wr.Rows(), err
		}
	}
	return wr.Rows(), wr.Close()
}

// sample returns the first lines of data for separator detection.
func sample(data []byte) []byte {
	const lines = 10
	end := 0
	for i := 0; i < lines && end < len(data); i++ {
		next := bytes.IndexByte(data[end:], '\n')
		if next < 0 {
			return data
		}
		end += next + 1
	}
	return data[:end]
}

func column(records [][]string, i int) []string {
	out := make([]string, len(records))
	for n, rec := range records {
		out[n] = rec[i]
	}
	return out
}

func parseColumnTypes(specs []string) (map[string]types.DataType, error) {
	out := make(map[string]types.DataType, len(specs))
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--type %q: want NAME=TYPE", spec)
		}
		dt, err := types.ParseDataType(typeName)
		if err != nil {
			return nil, fmt.Errorf("--type %q: %w", spec, err)
		}
		out[name] = dt
	}
	return out, nil
}

// tableName derives a table name from a file path.
func tableName(path string) string {
	if path == fileio.Stdio {
		return "table"
	}
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
