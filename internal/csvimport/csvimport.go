// Package csvimport bulk-loads DVDs from comma-separated text.
//
// Each line holds six positional fields: id, title, director, release year,
// genre, rating. The id column is ignored because the collection assigns its
// own. There is no header row and no quoting.
package csvimport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/wlynxg/chardet"
	"github.com/wlynxg/chardet/consts"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// FieldCount is the number of comma-separated fields per line
const FieldCount = 6

// sniffLen bounds how much input is inspected for charset detection
const sniffLen = 4096

const encodingWindows1252 = "Windows-1252"

// ErrFieldCount indicates a line did not split into FieldCount fields
var ErrFieldCount = errors.New("wrong number of fields")

// ErrNotFinite indicates a rating parsed as NaN or an infinity
var ErrNotFinite = errors.New("not a finite number")

// Adder receives parsed DVDs; it returns the assigned ID or 0 on failure.
// *collection.Collection satisfies it.
type Adder interface {
	Add(ctx context.Context, dvd domain.DVD) int64
}

// Result summarizes an import run
type Result struct {
	Imported int // Records accepted by the collection
	Skipped  int // Malformed lines and records the collection rejected
}

// Importer feeds CSV records into a collection
type Importer struct {
	target Adder
	logger *slog.Logger
}

// New creates an Importer that adds records to target
func New(target Adder, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{target: target, logger: logger}
}

// ImportFile imports every well-formed line of the file at path.
// If the file cannot be opened the result is empty and the error is returned.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		im.logger.Error("failed to open csv", "error", err, "path", path)
		return Result{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	res, err := im.Import(ctx, f)
	im.logger.Info("csv import finished", "path", path, "imported", res.Imported, "skipped", res.Skipped)
	return res, err
}

// Import reads r line by line with no limit on line length. Malformed lines
// are skipped. A read error stops the import; the returned Result still counts
// what was added before it.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result

	br := bufio.NewReader(utf8Reader(r))
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			im.logger.Error("failed to read csv", "error", readErr, "line", lineNo+1)
			return res, fmt.Errorf("read csv: %w", readErr)
		}
		if raw == "" && readErr == io.EOF {
			return res, nil
		}
		lineNo++

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		im.importLine(ctx, lineNo, line, &res)

		if readErr == io.EOF {
			return res, nil
		}
	}
}

func (im *Importer) importLine(ctx context.Context, lineNo int, line string, res *Result) {
	dvd, err := ParseLine(line)
	if err != nil {
		im.logger.Warn("skipped csv line", "line", lineNo, "error", err)
		res.Skipped++
		return
	}

	if im.target.Add(ctx, dvd) == 0 {
		im.logger.Warn("collection rejected csv record", "line", lineNo, "title", dvd.Title)
		res.Skipped++
		return
	}
	res.Imported++
}

// ParseLine converts one CSV line into a DVD with no ID.
// Only field count and numeric syntax are checked, not value ranges.
// Ratings must be finite.
func ParseLine(line string) (domain.DVD, error) {
	fields := strings.Split(line, ",")
	if len(fields) != FieldCount {
		return domain.DVD{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	year, err := strconv.Atoi(fields[3])
	if err != nil {
		return domain.DVD{}, fmt.Errorf("release year %q: %w", fields[3], err)
	}

	rating, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return domain.DVD{}, fmt.Errorf("rating %q: %w", fields[5], err)
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return domain.DVD{}, fmt.Errorf("rating %q: %w", fields[5], ErrNotFinite)
	}

	return domain.DVD{
		Title:       fields[1],
		Director:    fields[2],
		ReleaseYear: year,
		Genre:       fields[4],
		Rating:      rating,
	}, nil
}

// utf8Reader sniffs the start of r and transcodes single-byte Latin
// encodings to UTF-8. Anything else passes through untouched.
func utf8Reader(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, sniffLen)
	sample, err := br.Peek(sniffLen)

	var src io.Reader = br
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		// Peek consumed the error; replay the sample and then fail the scan
		src = io.MultiReader(bytes.NewReader(bytes.Clone(sample)), errReader{err})
	}

	if len(sample) == 0 {
		return src
	}
	if dec := decoderFor(chardet.Detect(sample).Encoding); dec != nil {
		return transform.NewReader(src, dec)
	}
	return src
}

// decoderFor maps a detected charset name to a UTF-8 decoder, or nil
func decoderFor(charset string) *encoding.Decoder {
	switch charset {
	case consts.ISO88591:
		return charmap.ISO8859_1.NewDecoder()
	case encodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	default:
		return nil
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
