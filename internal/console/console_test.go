package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/collection"
	"github.com/dvdshelf/dvdshelf/internal/service"
	"github.com/dvdshelf/dvdshelf/internal/store"
)

func newService() *service.ShelfService {
	logger := adapter.NullLogger()
	return service.NewShelfService(collection.New(store.NewMemoryStore(), logger), logger)
}

// run feeds lines to a fresh console and returns what it printed
func run(t *testing.T, svc *service.ShelfService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, adapter.NullLogger())
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestAddThenList(t *testing.T) {
	svc := newService()
	out := run(t, svc,
		"1", "Inception", "Nolan", "2010", "Sci-Fi", "9",
		"1", "Solaris", "Tarkovsky", "1972", "Sci-Fi", "",
		"2",
		"7",
	)

	assert.Contains(t, out, "DVD added successfully! (id 1)")
	assert.Contains(t, out, "1: Inception (2010) - Nolan - Sci-Fi - Rating: 9")
	assert.Contains(t, out, "2: Solaris (1972) - Tarkovsky - Sci-Fi - Rating: unrated")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))
}

func TestPipedInputHasNoPrompts(t *testing.T) {
	out := run(t, newService(), "2", "7")
	assert.Equal(t, "No DVDs in collection.\nExiting...\n", out)
}

func TestInteractivePrompts(t *testing.T) {
	var out bytes.Buffer
	c := New(newService(), strings.NewReader("7\n"), &out, adapter.NullLogger())
	c.interactive = true

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "--- DVD Management System ---")
	assert.Contains(t, out.String(), "Enter your choice: ")
}

func TestAddRejectsInvalidYear(t *testing.T) {
	svc := newService()
	out := run(t, svc, "1", "Inception", "Nolan", "1700", "Sci-Fi", "9", "7")

	assert.Contains(t, out, "Error: release year")
	assert.Empty(t, svc.List(context.Background()))
}

func TestUpdateKeepsBlankFields(t *testing.T) {
	svc := newService()
	out := run(t, svc,
		"1", "Inception", "Nolan", "2010", "Sci-Fi", "9",
		"3", "1", "", "", "", "Thriller", "",
		"2",
		"7",
	)

	assert.Contains(t, out, "DVD updated successfully!")
	assert.Contains(t, out, "1: Inception (2010) - Nolan - Thriller - Rating: 9")
}

func TestUpdateUnknownID(t *testing.T) {
	out := run(t, newService(), "3", "12", "7")
	assert.Contains(t, out, "DVD not found.")
}

func TestRemove(t *testing.T) {
	svc := newService()
	out := run(t, svc,
		"1", "Inception", "Nolan", "2010", "Sci-Fi", "9",
		"4", "1",
		"4", "1",
		"4", "abc",
		"7",
	)

	assert.Contains(t, out, "DVD removed successfully!")
	assert.Contains(t, out, "DVD not found.")
	assert.Contains(t, out, "Error: Invalid input.")
	assert.Empty(t, svc.List(context.Background()))
}

func TestAverage(t *testing.T) {
	out := run(t, newService(),
		"1", "The Matrix", "Wachowski", "1999", "Sci-Fi", "8.7",
		"1", "Inception", "Nolan", "2010", "sci-fi", "9.0",
		"5", "SCI-FI",
		"5", "Western",
		"7",
	)

	assert.Contains(t, out, "Average rating for genre 'SCI-FI': 8.85")
	assert.Contains(t, out, "Average rating for genre 'Western': 0.00")
}

func TestImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dvds.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,Heat,Mann,1995,Crime,8.3\n0,Alien,Scott,1979,Horror,8.5\nnot,enough\n"), 0o644))

	svc := newService()
	out := run(t, svc, "6", path, "6", path+".missing", "7")

	assert.Contains(t, out, "2 DVDs imported successfully!")
	assert.Contains(t, out, "1 lines skipped.")
	assert.Contains(t, out, "CSV import failed:")
	assert.Len(t, svc.List(context.Background()), 2)
}

func TestSearch(t *testing.T) {
	out := run(t, newService(),
		"1", "Heat", "Mann", "1995", "Crime", "8.3",
		"8", "hea",
		"8", "zzz",
		"7",
	)

	assert.Contains(t, out, "1: Heat (1995) - Mann - Crime - Rating: 8.3")
	assert.Contains(t, out, "No matching DVDs.")
}

func TestInvalidChoiceAndEOF(t *testing.T) {
	// No exit choice: end of input ends the session cleanly
	out := run(t, newService(), "42")
	assert.Equal(t, "Invalid choice. Please try again.\n", out)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(newService(), strings.NewReader("2\n"), &bytes.Buffer{}, nil)
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
