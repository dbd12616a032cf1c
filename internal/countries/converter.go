// Package countries turns a CSV of multilingual country names into a single
// SQL INSERT statement for the countries table.
package countries

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sndcds/uranus-tools/internal/common"
	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/logging"
)

const (
	ColumnCode    = "Alpha-3 Code"
	ColumnEnglish = "Name (English)"
	ColumnGerman  = "Name (German)"
	ColumnDanish  = "Name (Danish)"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrMissingField  = errors.New("missing field")
)

// Name is one (country, language) pair.
type Name struct {
	Code     string
	Name     string
	Language constants.Language
}

// Result describes a conversion.
type Result struct {
	InputPath  string
	OutputPath string
	Rows       int
	Names      int
	// Written is false when the input had no data rows and nothing was written.
	Written bool
}

// languageColumns fixes the per-row output order.
var languageColumns = []struct {
	column   string
	language constants.Language
}{
	{ColumnEnglish, constants.LanguageEnglish},
	{ColumnGerman, constants.LanguageGerman},
	{ColumnDanish, constants.LanguageDanish},
}

// ReadNames reads the CSV and returns three names per row, en, de, da.
func ReadNames(r io.Reader) ([]Name, error) {
	h, err := common.NewHeaderReader(r)
	if err != nil {
		return nil, err
	}
	if missing := h.Missing(ColumnCode, ColumnEnglish, ColumnGerman, ColumnDanish); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var names []Name
	for {
		rec, err := h.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		code, err := field(rec, ColumnCode)
		if err != nil {
			return nil, err
		}
		for _, lc := range languageColumns {
			name, err := field(rec, lc.column)
			if err != nil {
				return nil, err
			}
			names = append(names, Name{Code: code, Name: name, Language: lc.language})
		}
	}
	return names, nil
}

// field returns the trimmed value of a required column.
func field(rec common.Record, column string) (string, error) {
	v, ok := rec.Lookup(column)
	if !ok {
		return "", fmt.Errorf("line %d: %w: %s", rec.Line, ErrMissingField, column)
	}
	return strings.TrimSpace(v), nil
}

// EscapeLiteral doubles single quotes for use inside a SQL string literal.
func EscapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Tuple renders one VALUES tuple.
func (n Name) Tuple() string {
	return fmt.Sprintf("('%s', '%s', '%s')", EscapeLiteral(n.Code), EscapeLiteral(n.Name), n.Language)
}

// RenderInsert builds the INSERT statement, one tuple per name.
func RenderInsert(names []Name) string {
	var b strings.Builder
	b.WriteString(constants.CountriesInsertHeader)
	for i, n := range names {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(n.Tuple())
	}
	b.WriteString(";\n")
	return b.String()
}

// OutputPath returns the sibling .sql path for an input file.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".sql"
}

// Convert reads inputPath and writes the statement next to it. An existing
// output file is replaced; a header-only input writes nothing.
func Convert(inputPath string) (*Result, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer f.Close()

	names, err := ReadNames(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", inputPath, err)
	}

	result := &Result{
		InputPath:  inputPath,
		OutputPath: OutputPath(inputPath),
		Rows:       len(names) / len(languageColumns),
		Names:      len(names),
	}

	if len(names) == 0 {
		logging.Warn(constants.MsgCountriesNoRows, "input", inputPath)
		return result, nil
	}

	if err := writeFileAtomic(result.OutputPath, []byte(RenderInsert(names))); err != nil {
		return nil, err
	}
	result.Written = true

	logging.Debug("countries converted",
		"input", inputPath,
		"output", result.OutputPath,
		"rows", result.Rows,
	)
	return result, nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
