package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/datex"
)

// List prints one line per milestone in stored order.
func (a *App) List(ctx context.Context) error {
	items, err := a.timelines.List(ctx, a.online())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Timeline is empty")
		return nil
	}
	for _, m := range items {
		fmt.Fprintf(a.out, "%-38s %s  %s\n", m.ID, when(m), m.Title)
	}
	return nil
}

// Show prints a single milestone.
func (a *App) Show(ctx context.Context, id string) error {
	m, err := a.timelines.Get(ctx, a.online(), id)
	if errors.Is(err, timeline.ErrNotFound) {
		fmt.Fprintf(a.out, "No milestone %s\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	printMilestone(a.out, m)
	return nil
}

// Delete removes a milestone after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return nil
	}

	err = a.timelines.Delete(ctx, a.online(), id)
	if errors.Is(err, timeline.ErrNotFound) {
		fmt.Fprintf(a.out, "No milestone %s\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func when(m models.Milestone) string {
	if m.EventDate != nil {
		return datex.FormatDisplay(*m.EventDate)
	}
	return fmt.Sprintf("%10d", m.Year)
}

func printMilestone(w io.Writer, m models.Milestone) {
	if m.ID != "" {
		fmt.Fprintf(w, "ID:          %s\n", m.ID)
	}
	fmt.Fprintf(w, "When:        %s\n", strings.TrimSpace(when(m)))
	fmt.Fprintf(w, "Title:       %s\n", m.Title)
	fmt.Fprintf(w, "Description: %s\n", m.Description)
	if m.Highlight != nil {
		fmt.Fprintf(w, "Highlight:   %s\n", *m.Highlight)
	}
	if m.Cover != nil {
		fmt.Fprintf(w, "Cover:       %s\n", describeMedia(*m.Cover))
	}
	for _, md := range m.Media {
		fmt.Fprintf(w, "Media:       %s\n", describeMedia(md))
	}
	if len(m.LinkedPostIDs) > 0 {
		fmt.Fprintf(w, "Posts:       %s\n", strings.Join(m.LinkedPostIDs, ", "))
	}
	if len(m.LinkedEventIDs) > 0 {
		fmt.Fprintf(w, "Events:      %s\n", strings.Join(m.LinkedEventIDs, ", "))
	}
	if len(m.LinkedPeople) > 0 {
		fmt.Fprintf(w, "People:      %s\n", strings.Join(m.LinkedPeople, ", "))
	}
}

func describeMedia(d models.MediaDescriptor) string {
	if u := d.ThumbnailURL(); u != "" && u != d.ID {
		return fmt.Sprintf("%s [%s] %s", d.ID, d.Kind, u)
	}
	return fmt.Sprintf("%s [%s]", d.ID, d.Kind)
}
