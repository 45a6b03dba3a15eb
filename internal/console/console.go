// Package console implements the numbered-menu front end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/service"
)

// errInputClosed ends the session when stdin runs out mid-operation
var errInputClosed = errors.New("input closed")

const menu = `
--- DVD Management System ---
1. Add DVD
2. List DVDs
3. Update DVD
4. Remove DVD
5. Compute Average Rating by Genre
6. Import DVDs from CSV File
7. Exit
8. Search by Title
`

// Console reads menu choices line by line and prints results
type Console struct {
	svc         *service.ShelfService
	in          *bufio.Scanner
	out         io.Writer
	interactive bool
	logger      *slog.Logger
}

// New creates a Console. Menus and prompts are written only when in is a terminal.
func New(svc *service.ShelfService, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}

	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	return &Console{
		svc:         svc,
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
		logger:      logger,
	}
}

// Run processes menu choices until Exit or end of input
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.prompt(menu + "Enter your choice: ")
		choice, err := c.readLine()
		if err != nil {
			return c.finish(err)
		}

		switch strings.ToLower(choice) {
		case "1":
			err = c.add(ctx)
		case "2":
			c.list(ctx)
		case "3":
			err = c.update(ctx)
		case "4":
			err = c.remove(ctx)
		case "5":
			err = c.average(ctx)
		case "6":
			err = c.importCSV(ctx)
		case "7", "q", "quit", "exit":
			c.println("Exiting...")
			return nil
		case "8":
			err = c.search(ctx)
		case "":
			// Blank lines are ignored so piped scripts may be spaced out
		default:
			c.println("Invalid choice. Please try again.")
		}

		if err != nil {
			return c.finish(err)
		}
	}
}

func (c *Console) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		c.logger.Debug("console input closed")
		return nil
	}
	return err
}

func (c *Console) add(ctx context.Context) error {
	var f service.Form
	fields := []struct {
		label string
		dst   *string
	}{
		{"Title: ", &f.Title},
		{"Director: ", &f.Director},
		{"Release Year: ", &f.ReleaseYear},
		{"Genre: ", &f.Genre},
		{"Rating (blank if unknown): ", &f.Rating},
	}
	for _, field := range fields {
		v, err := c.ask(field.label)
		if err != nil {
			return err
		}
		*field.dst = v
	}

	dvd, err := c.svc.Add(ctx, f)
	if err != nil {
		c.printf("Error: %v\n", err)
		return nil
	}
	c.printf("DVD added successfully! (id %d)\n", dvd.ID)
	return nil
}

func (c *Console) list(ctx context.Context) {
	c.printDVDs(c.svc.List(ctx), "No DVDs in collection.")
}

func (c *Console) update(ctx context.Context) error {
	id, ok, err := c.askID("Enter DVD ID to update: ")
	if err != nil || !ok {
		return err
	}

	current, err := c.svc.Get(ctx, id)
	if err != nil {
		c.println("DVD not found.")
		return nil
	}

	var f service.Form
	fields := []struct {
		label   string
		current string
		dst     *string
	}{
		{"New Title", current.Title, &f.Title},
		{"New Director", current.Director, &f.Director},
		{"New Release Year", fmt.Sprint(current.ReleaseYear), &f.ReleaseYear},
		{"New Genre", current.Genre, &f.Genre},
		{"New Rating", current.FormattedRating(), &f.Rating},
	}
	for _, field := range fields {
		v, err := c.ask(fmt.Sprintf("%s (%s): ", field.label, field.current))
		if err != nil {
			return err
		}
		*field.dst = v
	}

	if _, err := c.svc.Update(ctx, id, f); err != nil {
		c.printf("Update failed: %v\n", err)
		return nil
	}
	c.println("DVD updated successfully!")
	return nil
}

func (c *Console) remove(ctx context.Context) error {
	id, ok, err := c.askID("Enter DVD ID to remove: ")
	if err != nil || !ok {
		return err
	}

	if err := c.svc.Remove(ctx, id); err != nil {
		c.println("DVD not found.")
		return nil
	}
	c.println("DVD removed successfully!")
	return nil
}

func (c *Console) average(ctx context.Context) error {
	genre, err := c.ask("Enter genre to compute average rating: ")
	if err != nil {
		return err
	}
	c.printf("Average rating for genre '%s': %.2f\n", genre, c.svc.AverageRating(ctx, genre))
	return nil
}

func (c *Console) importCSV(ctx context.Context) error {
	path, err := c.ask("Enter full CSV file path: ")
	if err != nil {
		return err
	}

	res, err := c.svc.Import(ctx, path)
	if err != nil && res.Imported == 0 {
		c.printf("CSV import failed: %v\n", err)
		return nil
	}

	c.printf("%d DVDs imported successfully!\n", res.Imported)
	if res.Skipped > 0 {
		c.printf("%d lines skipped.\n", res.Skipped)
	}
	if err != nil {
		c.printf("Import stopped early: %v\n", err)
	}
	return nil
}

func (c *Console) search(ctx context.Context) error {
	query, err := c.ask("Search titles: ")
	if err != nil {
		return err
	}
	c.printDVDs(c.svc.Search(ctx, query), "No matching DVDs.")
	return nil
}

// askID prompts for an ID; ok is false when the input was not a valid ID
func (c *Console) askID(label string) (int64, bool, error) {
	raw, err := c.ask(label)
	if err != nil {
		return 0, false, err
	}
	id, err := service.ParseID(raw)
	if err != nil {
		c.println("Error: Invalid input.")
		return 0, false, nil
	}
	return id, true, nil
}

func (c *Console) ask(label string) (string, error) {
	c.prompt(label)
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) printDVDs(dvds []domain.DVD, empty string) {
	if len(dvds) == 0 {
		c.println(empty)
		return
	}
	for _, d := range dvds {
		c.println(d.String())
	}
}

func (c *Console) prompt(s string) {
	if c.interactive {
		fmt.Fprint(c.out, s)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
