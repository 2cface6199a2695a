package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/client/wizard"
)

var stageHelp = map[wizard.Stage]string{
	wizard.StageDate:        "date <text> | nodate",
	wizard.StageDescription: "title <text> | desc [text]",
	wizard.StageHighlight:   "highlight <text> | skip | unskip",
	wizard.StageBackground:  "cover <path> | usecover <media id> | nocover",
	wizard.StageMedia:       "media <path> [path...] | rm <media id> | gallery",
	wizard.StageLinks:       "posts [q] | post <id> | events [q] | event <id> | person <name> | unperson <name> | people <q>",
	wizard.StagePreview:     "save",
}

const navHelp = "n(ext) | b(ack) | p(review) | show | cancel"

// Add opens the composer on an empty milestone.
func (a *App) Add(ctx context.Context) error {
	return a.compose(ctx, a.timelines.OpenComposer(ctx, a.online(), nil))
}

// Edit opens the composer on an existing milestone.
func (a *App) Edit(ctx context.Context, id string) error {
	online := a.online()
	m, err := a.timelines.Get(ctx, online, id)
	if errors.Is(err, timeline.ErrNotFound) {
		fmt.Fprintf(a.out, "No milestone %s\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	return a.compose(ctx, a.timelines.OpenComposer(ctx, online, &m))
}

// compose runs the composer sub-prompt until the milestone is saved, the
// user cancels, or input ends.
func (a *App) compose(ctx context.Context, c *wizard.Controller) error {
	defer c.Close()

	c.Links().OnPeopleResults(func(q string, results []models.PersonSummary) {
		names := make([]string, 0, len(results))
		for _, p := range results {
			names = append(names, fmt.Sprintf("%s (%s)", p.DisplayName, p.ID))
		}
		fmt.Fprintf(a.out, "\npeople matching %q: %s\n", q, strings.Join(names, ", "))
	})

	fmt.Fprintln(a.out, "Composer commands:", navHelp)
	for {
		st := c.Stage()
		fmt.Fprintf(a.out, "compose [%d/%d %s]> ", st, wizard.StagePreview, st)
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		done, err := a.composeStep(ctx, c, cmd, arg)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
		if done {
			return nil
		}
	}
}

func (a *App) composeStep(ctx context.Context, c *wizard.Controller, cmd, arg string) (bool, error) {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, navHelp)
		fmt.Fprintln(a.out, stageHelp[c.Stage()])

	case "n", "next":
		if _, err := c.Advance(); err != nil {
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(a.out, "Required: %s\n", strings.Join(verr.Fields, ", "))
				return false, nil
			}
			return false, err
		}

	case "b", "back":
		if _, err := c.Retreat(); errors.Is(err, wizard.ErrCancelled) {
			fmt.Fprintln(a.out, "Cancelled")
			return true, nil
		}

	case "p", "preview":
		c.JumpToPreview()
		printMilestone(a.out, c.Preview())

	case "show":
		printMilestone(a.out, c.Preview())

	case "save":
		stored, err := c.Commit(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Saved %s\n", stored.ID)
		return true, nil

	case "cancel":
		c.Close()
		fmt.Fprintln(a.out, "Cancelled")
		return true, nil

	case "date":
		if !c.SetDateText(arg) {
			fmt.Fprintln(a.out, "Unrecognised date, cleared")
		}
	case "nodate":
		c.ClearDate()

	case "title":
		c.SetTitle(arg)
	case "desc":
		if arg == "" {
			text, err := GetMultiline(a.reader, "Enter description", a.out)
			if err != nil {
				return false, err
			}
			arg = text
		}
		c.SetDescription(arg)

	case "highlight":
		c.SetHighlight(arg)
	case "skip":
		c.SetSkipHighlight(true)
	case "unskip":
		c.SetSkipHighlight(false)

	case "cover":
		d, err := c.UploadCover(ctx, localAsset(arg))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Cover %s\n", describeMedia(d))
	case "usecover":
		return false, c.SetCoverFromGallery(arg)
	case "nocover":
		c.ClearCover()

	case "media":
		assets := make([]models.LocalAsset, 0)
		for _, p := range strings.Fields(arg) {
			assets = append(assets, localAsset(p))
		}
		added, err := c.UploadMedia(ctx, assets...)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Added %d item(s)\n", len(added))
	case "rm":
		if !c.RemoveMedia(arg) {
			return false, wizard.ErrUnknownMedia
		}
	case "gallery":
		for _, d := range c.Gallery() {
			fmt.Fprintln(a.out, describeMedia(d))
		}

	case "posts":
		selected := toSet(c.Links().SelectedPosts())
		for _, p := range c.Links().FilterPosts(arg) {
			fmt.Fprintf(a.out, "%s %s %s\n", mark(selected, p.ID), p.ID, p.Title)
		}
	case "post":
		c.Links().TogglePost(arg)
	case "events":
		selected := toSet(c.Links().SelectedCompetitions())
		for _, e := range c.Links().FilterCompetitions(arg) {
			fmt.Fprintf(a.out, "%s %s %s\n", mark(selected, e.ID), e.ID, e.Name)
		}
	case "event":
		c.Links().ToggleCompetition(arg)
	case "person":
		c.Links().AddPerson(arg)
	case "unperson":
		c.Links().RemovePerson(arg)
	case "people":
		c.Links().SearchPeople(ctx, arg)

	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
	return false, nil
}

func localAsset(path string) models.LocalAsset {
	return models.LocalAsset{URI: path, Name: filepath.Base(path)}
}

func toSet(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func mark(selected map[string]bool, id string) string {
	if selected[id] {
		return "[x]"
	}
	return "[ ]"
}
