package csvimport_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/collection"
	"github.com/dvdshelf/dvdshelf/internal/csvimport"
	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/store"
)

func newTarget() *collection.Collection {
	return collection.New(store.NewMemoryStore(), adapter.NullLogger())
}

func openBolt(t *testing.T) domain.Store {
	t.Helper()
	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "dvds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    domain.DVD
		wantErr error
	}{
		{
			name: "well formed",
			line: "7, The Matrix , Wachowski,1999,Sci-Fi,8.7",
			want: domain.DVD{Title: "The Matrix", Director: "Wachowski", ReleaseYear: 1999, Genre: "Sci-Fi", Rating: 8.7},
		},
		{
			name: "id column is ignored even when not numeric",
			line: "abc,Alien,,1979,Horror,-1",
			want: domain.DVD{Title: "Alien", ReleaseYear: 1979, Genre: "Horror", Rating: -1},
		},
		{
			name: "out of range values are not checked here",
			line: "1,Future,Nobody,3000,Drama,42",
			want: domain.DVD{Title: "Future", Director: "Nobody", ReleaseYear: 3000, Genre: "Drama", Rating: 42},
		},
		{name: "five fields", line: "1,Alien,Scott,1979,Horror", wantErr: csvimport.ErrFieldCount},
		{name: "seven fields", line: "1,Alien,Scott,1979,Horror,8.5,extra", wantErr: csvimport.ErrFieldCount},
		{name: "empty line", line: "", wantErr: csvimport.ErrFieldCount},
		{name: "NaN rating", line: "1,Alien,Scott,1979,Horror,NaN", wantErr: csvimport.ErrNotFinite},
		{name: "infinite rating", line: "1,Alien,Scott,1979,Horror,inf", wantErr: csvimport.ErrNotFinite},
		{name: "negative infinity rating", line: "1,Alien,Scott,1979,Horror,-Infinity", wantErr: csvimport.ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := csvimport.ParseLine(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineBadNumbers(t *testing.T) {
	_, err := csvimport.ParseLine("1,Alien,Scott,nineteen,Horror,8.5")
	assert.ErrorContains(t, err, "release year")

	_, err = csvimport.ParseLine("1,Alien,Scott,1979,Horror,great")
	assert.ErrorContains(t, err, "rating")
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	// Only the first and last lines are well formed
	input := strings.Join([]string{
		"1,The Matrix,Wachowski,1999,Sci-Fi,8.7",
		"2,Inception,Nolan,2010,Sci-Fi",
		"3,Titanic,Cameron,1997,Drama,7.8,extra",
		"4,Alien,Scott,nineteen-seventy-nine,Horror,8.5",
		"5,Heat,Mann,1995,Crime,n/a",
		"",
		"6,Titanic,Cameron,1997,Drama,7.8",
	}, "\n")

	target := newTarget()
	res, err := csvimport.New(target, adapter.NullLogger()).Import(ctx, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 5, res.Skipped)

	list := target.ListAll(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "The Matrix", list[0].Title)
	assert.Equal(t, "Titanic", list[1].Title)
	assert.NotEqual(t, int64(6), list[1].ID, "csv id column is not used")
}

func TestImportWellFormedLineAddsOneRecord(t *testing.T) {
	ctx := context.Background()
	target := newTarget()
	im := csvimport.New(target, adapter.NullLogger())

	res, err := im.Import(ctx, strings.NewReader("0,Heat,Mann,1995,Crime,8.3\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	res, err = im.Import(ctx, strings.NewReader("0,Heat,Mann,1995,Crime\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Len(t, target.ListAll(ctx), 1)
}

func TestImportNonFiniteRatingsAreSkipped(t *testing.T) {
	ctx := context.Background()
	input := "1,Alien,Scott,1979,Horror,NaN\n2,Aliens,Cameron,1986,Horror,inf\n3,Heat,Mann,1995,Horror,8\n"

	for _, backend := range []struct {
		name string
		st   domain.Store
	}{
		{"memory", store.NewMemoryStore()},
		{"bolt", openBolt(t)},
	} {
		t.Run(backend.name, func(t *testing.T) {
			target := collection.New(backend.st, adapter.NullLogger())
			res, err := csvimport.New(target, adapter.NullLogger()).Import(ctx, strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, csvimport.Result{Imported: 1, Skipped: 2}, res)
			assert.InDelta(t, 8.0, target.AverageRatingByGenre(ctx, "Horror"), 1e-9)
		})
	}
}

func TestImportLongLineIsSkipped(t *testing.T) {
	ctx := context.Background()
	input := strings.Join([]string{
		"1,Heat,Mann,1995,Crime,8.3",
		"2," + strings.Repeat("x", 70_000) + ",Nobody,2000,Drama",
		"3,Ran,Kurosawa,1985,Drama,8.2",
	}, "\n")

	target := newTarget()
	res, err := csvimport.New(target, adapter.NullLogger()).Import(ctx, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, csvimport.Result{Imported: 2, Skipped: 1}, res)
	list := target.ListAll(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Ran", list[1].Title)
}

func TestImportAcceptsLongWellFormedLine(t *testing.T) {
	ctx := context.Background()
	title := strings.Repeat("y", 100_000)

	target := newTarget()
	res, err := csvimport.New(target, adapter.NullLogger()).
		Import(ctx, strings.NewReader("1,"+title+",Nobody,2000,Drama,5\n2,Ran,Kurosawa,1985,Drama,8.2"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, title, target.ListAll(ctx)[0].Title)
}

func TestImportStripsBOMAndCRLF(t *testing.T) {
	ctx := context.Background()
	target := newTarget()

	res, err := csvimport.New(target, adapter.NullLogger()).
		Import(ctx, strings.NewReader("\ufeff1,Heat,Mann,1995,Crime,8.3\r\n2,Ran,Kurosawa,1985,Drama,8.2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	list := target.ListAll(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Heat", list[0].Title)
	assert.Equal(t, 8.2, list[1].Rating)
}

func TestImportStopsOnReadError(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk on fire")
	src := io.MultiReader(
		strings.NewReader("1,Heat,Mann,1995,Crime,8.3\n"),
		iotest.ErrReader(errDisk),
	)

	target := newTarget()
	res, err := csvimport.New(target, adapter.NullLogger()).Import(ctx, src)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 1, res.Imported, "records read before the failure are kept")
	assert.Len(t, target.ListAll(ctx), 1)
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := csvimport.New(newTarget(), adapter.NullLogger()).
		Import(ctx, strings.NewReader("1,Heat,Mann,1995,Crime,8.3\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Imported)
}

// rejectingAdder simulates a collection whose storage is down
type rejectingAdder struct{ calls int }

func (r *rejectingAdder) Add(context.Context, domain.DVD) int64 {
	r.calls++
	return 0
}

func TestImportCountsOnlyAcceptedRecords(t *testing.T) {
	target := &rejectingAdder{}
	res, err := csvimport.New(target, adapter.NullLogger()).
		Import(context.Background(), strings.NewReader("1,Heat,Mann,1995,Crime,8.3\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, target.calls)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		res, err := csvimport.New(newTarget(), adapter.NullLogger()).
			ImportFile(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Zero(t, res.Imported)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dvds.csv")
		data := "1,The Matrix,Wachowski,1999,Sci-Fi,8.7\n2,Inception,Nolan,2010,Sci-Fi,9.0\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		target := newTarget()
		res, err := csvimport.New(target, adapter.NullLogger()).ImportFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Imported)
		assert.InDelta(t, 8.85, target.AverageRatingByGenre(ctx, "SCI-FI"), 1e-9)
	})
}
