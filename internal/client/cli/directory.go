package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
)

// Use switches the browsed directory and prints the first page.
func (a *App) Use(ctx context.Context, category string) error {
	if err := a.directory.Switch(ctx, models.Category(category)); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return a.List(ctx)
}

// List prints the visible rows of the current page with the category's
// schema columns, selection markers, and the pagination line.
func (a *App) List(ctx context.Context) error {
	schema := a.directory.Category().Schema()
	sel := a.directory.Selection()

	header := make([]string, 0, len(schema)+1)
	header = append(header, " ")
	for _, field := range schema {
		header = append(header, field.Label)
	}
	printlnFn(strings.Join(header, "\t"))

	for _, record := range a.directory.Visible() {
		mark := "[ ]"
		if sel.Selected(record.ID) {
			mark = "[x]"
		}
		row := make([]string, 0, len(schema)+1)
		row = append(row, mark)
		for _, field := range schema {
			row = append(row, record.FieldValue(field.Key))
		}
		printlnFn(strings.Join(row, "\t"))
	}

	page := a.directory.Page()
	printlnFn(fmt.Sprintf("Page %d/%d (%d items), %d selected",
		page.Current, page.TotalPages, page.TotalItems, sel.Count()))
	return nil
}

// Page jumps to a page by number.
func (a *App) Page(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn("Usage: page <n>")
		return err
	}
	if err := a.directory.LoadPage(ctx, n); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return a.List(ctx)
}

// Next loads the following page if there is one.
func (a *App) Next(ctx context.Context) error {
	page := a.directory.Page()
	if !page.HasMore && page.Current >= page.TotalPages {
		printlnFn("Already on the last page.")
		return nil
	}
	return a.Page(ctx, strconv.Itoa(page.Current+1))
}

// Prev loads the preceding page if there is one.
func (a *App) Prev(ctx context.Context) error {
	page := a.directory.Page()
	if page.Current <= 1 {
		printlnFn("Already on the first page.")
		return nil
	}
	return a.Page(ctx, strconv.Itoa(page.Current-1))
}

// Search filters the visible rows; an empty query resets the filter.
func (a *App) Search(ctx context.Context, query string) error {
	a.directory.SetQuery(query)
	return a.List(ctx)
}

// Select toggles one row in the selection.
func (a *App) Select(ctx context.Context, id string) error {
	a.directory.Selection().Toggle(id)
	printlnFn(fmt.Sprintf("%d selected", a.directory.Selection().Count()))
	return nil
}

// SelectAll toggles every visible row.
func (a *App) SelectAll(ctx context.Context) error {
	a.directory.Selection().ToggleAll(a.directory.VisibleIDs())
	printlnFn(fmt.Sprintf("%d selected", a.directory.Selection().Count()))
	return nil
}
