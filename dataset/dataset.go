package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/clustergo/blobstore"
	"github.com/hupe1980/clustergo/internal/compress"
	"github.com/hupe1980/clustergo/internal/kmeans"
	"github.com/hupe1980/clustergo/resource"
)

// Dataset is an ordered set of points of equal dimensionality.
type Dataset [][]float64

// Len returns the number of points.
func (d Dataset) Len() int { return len(d) }

// Dim returns the dimensionality, or 0 for an empty dataset.
func (d Dataset) Dim() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0])
}

// ParseError describes a malformed line. It matches kmeans.ErrInvalidInput
// under errors.Is.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid input: line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is kmeans.ErrInvalidInput.
func (e *ParseError) Is(target error) bool { return target == kmeans.ErrInvalidInput }

// Options configures parsing and loading.
type Options struct {
	// SkipRows skips that many leading data lines, e.g. a CSV header.
	SkipRows int
	// Columns selects and orders the columns to keep. Empty keeps all.
	Columns []int
	// Controller, if set, throttles reads from the source.
	Controller *resource.Controller
	// Compression overrides the compression inferred from the blob name.
	Compression *compress.Type
}

// Option configures Parse and Load.
type Option func(*Options)

// WithSkipRows skips the first n data lines.
func WithSkipRows(n int) Option {
	return func(o *Options) { o.SkipRows = n }
}

// WithColumns keeps only the given zero-based columns, in the given order.
// A trailing label column, for instance, is dropped with WithColumns(0, 1).
func WithColumns(cols ...int) Option {
	return func(o *Options) { o.Columns = cols }
}

// WithController throttles source reads through c.
func WithController(c *resource.Controller) Option {
	return func(o *Options) { o.Controller = c }
}

// WithCompression forces the compression of the source.
func WithCompression(t compress.Type) Option {
	return func(o *Options) { o.Compression = &t }
}

func isDelimiter(r rune) bool {
	return r == ',' || r == ';'
}

// splitFields splits a record on commas, semicolons and runs of whitespace.
// A comma or semicolon must separate two non-empty fields.
func splitFields(line string) ([]string, error) {
	var fields []string
	for i := 1; ; i++ {
		end := strings.IndexFunc(line, isDelimiter)
		part := line
		if end >= 0 {
			part = line[:end]
		}
		values := strings.Fields(part)
		if len(values) == 0 {
			return nil, fmt.Errorf("empty field %d", i)
		}
		fields = append(fields, values...)
		if end < 0 {
			return fields, nil
		}
		line = line[end+1:]
	}
}

// Parse reads a dataset from r.
func Parse(r io.Reader, optFns ...Option) (Dataset, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		points  Dataset
		dim     int
		lineNo  int
		skipped int
	)
	for scanner.Scan() {
		lineNo++
		line, _, _ := strings.Cut(scanner.Text(), "#")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if skipped < opts.SkipRows {
			skipped++
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}

		if len(opts.Columns) > 0 {
			selected := make([]string, len(opts.Columns))
			for i, c := range opts.Columns {
				if c < 0 || c >= len(fields) {
					return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("column %d out of range (%d columns)", c, len(fields))}
				}
				selected[i] = fields[c]
			}
			fields = selected
		}

		p := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			p[i] = v
		}

		if len(points) == 0 {
			dim = len(p)
		} else if len(p) != dim {
			return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("%d values, expected %d", len(p), dim)}
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if _, err := kmeans.Validate(points); err != nil {
		return nil, err
	}
	return points, nil
}

// Load reads the blob name from store and parses it.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (Dataset, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		return nil, fmt.Errorf("dataset %q: open: %w", name, err)
	}
	defer blob.Close()

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: read: %w", name, err)
	}
	defer raw.Close()

	var src io.Reader = raw
	if opts.Controller != nil {
		src = resource.NewRateLimitedReader(ctx, src, opts.Controller)
	}

	typ := compress.FromName(name)
	if opts.Compression != nil {
		typ = *opts.Compression
	}
	dec, err := compress.NewReader(src, typ)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	defer dec.Close()

	points, err := Parse(dec, optFns...)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	return points, nil
}

// Format writes points in the text format read by Parse, one point per line
// with space-separated coordinates.
func Format(w io.Writer, points Dataset) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		for i, v := range p {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
