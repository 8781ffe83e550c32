package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/pages"
	"github.com/rubiojr/pagebuilder/pkg/render"
	"github.com/urfave/cli/v3"
)

var (
	checkTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	checkOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	checkBadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	checkMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	checkSummaryStyle = lipgloss.NewStyle().
				Bold(true).
				Border(lipgloss.ThickBorder()).
				Padding(0, 1).
				Margin(1, 0, 0, 0)
)

// errCheckFailed is returned when at least one block would be rejected.
var errCheckFailed = errors.New("some blocks would not render")

// CheckCommand creates the check command
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate page files without rendering them",
		ArgsUsage: "[page file...]",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			files := c.Args().Slice()
			if len(files) == 0 {
				files, err = pageFiles(cfg.PagesDir)
				if err != nil {
					return err
				}
			}

			// Grids validate without querying, so any gateway will do.
			composer, err := newComposer(cfg, offlineGateway{}, nil)
			if err != nil {
				return err
			}
			return checkFiles(os.Stdout, composer.Registry(), files)
		},
	}
}

// pageFiles returns every page file under dir, sorted.
func pageFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*/*.yaml", "*/*.yml", "*/*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// blockProblem describes a block that would be replaced by a placeholder.
type blockProblem struct {
	Index  int
	Type   string
	Reason string
	Data   map[string]any
}

// checkPage returns the blocks of page that reg would reject.
func checkPage(reg *render.Registry, page *core.Page) []blockProblem {
	var problems []blockProblem
	for i, b := range page.Blocks {
		r, ok := reg.Lookup(b.Type)
		switch {
		case !ok:
			problems = append(problems, blockProblem{Index: i, Type: b.Type, Reason: "unknown block type", Data: b.Data})
		case !r.Validate(b.Data):
			problems = append(problems, blockProblem{Index: i, Type: core.NormalizeType(b.Type), Reason: "invalid block data", Data: b.Data})
		}
	}
	return problems
}

func checkFiles(w io.Writer, reg *render.Registry, files []string) error {
	fmt.Fprintln(w, checkTitleStyle.Render(fmt.Sprintf("Checking %d page files", len(files))))

	var pagesOK, blocks, bad int
	for _, file := range files {
		page, err := pages.ReadFile(file)
		if err != nil {
			bad++
			fmt.Fprintf(w, "%s %s\n  %s\n", checkBadStyle.Render("✗"), file, checkMetaStyle.Render(err.Error()))
			continue
		}
		blocks += len(page.Blocks)

		problems := checkPage(reg, page)
		if len(problems) == 0 {
			pagesOK++
			fmt.Fprintf(w, "%s %s %s\n", checkOKStyle.Render("✓"), file,
				checkMetaStyle.Render(fmt.Sprintf("(%d blocks)", len(page.Blocks))))
			continue
		}

		bad += len(problems)
		fmt.Fprintf(w, "%s %s\n", checkBadStyle.Render("✗"), file)
		for _, p := range problems {
			fmt.Fprintf(w, "  block %d (%s): %s", p.Index, p.Type, p.Reason)
			if data := core.FormatData(p.Data); data != "" {
				fmt.Fprint(w, checkMetaStyle.Render(strings.ReplaceAll(data, "\n", "\n  ")))
			}
			fmt.Fprintln(w)
		}
	}

	summary := fmt.Sprintf("%d/%d pages ok, %d blocks checked, %d problems", pagesOK, len(files), blocks, bad)
	fmt.Fprintln(w, checkSummaryStyle.Render(summary))
	if bad > 0 {
		return errCheckFailed
	}
	return nil
}

// offlineGateway lets the grids be registered for validation. Any query
// fails.
type offlineGateway struct{}

var errOffline = errors.New("no database in check mode")

func (offlineGateway) SearchGroups(context.Context, gateway.GroupQuery) ([]gateway.Group, error) {
	return nil, errOffline
}

func (offlineGateway) SearchListings(context.Context, gateway.ListingQuery) ([]gateway.Listing, error) {
	return nil, errOffline
}

func (offlineGateway) SearchMembers(context.Context, gateway.MemberQuery) ([]gateway.Member, error) {
	return nil, errOffline
}

func (offlineGateway) SearchEvents(context.Context, gateway.EventQuery) ([]gateway.Event, error) {
	return nil, errOffline
}
