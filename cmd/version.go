package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/rubiojr/pagebuilder/pkg/db"
	"github.com/rubiojr/pagebuilder/pkg/render"
	"github.com/rubiojr/pagebuilder/pkg/version"
	"github.com/urfave/cli/v3"
)

type versionInfo struct {
	Version       string   `json:"version"`
	Commit        string   `json:"commit,omitempty"`
	Go            string   `json:"go"`
	SchemaVersion int      `json:"schema_version"`
	BlockTypes    []string `json:"block_types"`
}

// VersionCommand creates the version command
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print version, commit and supported block types as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if !c.Bool("json") {
				fmt.Println(version.BuildVersion())
				return nil
			}

			// Registering with a gateway lists the grids too; nothing is queried.
			reg, err := render.DefaultRegistry(render.Deps{Gateway: offlineGateway{}})
			if err != nil {
				return err
			}
			schema, err := db.SchemaVersion()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(versionInfo{
				Version:       version.APIVersion(),
				Commit:        version.Commit,
				Go:            runtime.Version(),
				SchemaVersion: schema,
				BlockTypes:    reg.Types(),
			})
		},
	}
}
