// Command analyze runs the offline zone analyzer over map definition
// files. The "report" subcommand prints the zone relationships a map
// induces; "write" embeds the computed metadata back into the file so
// the server can load it without re-analyzing.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/gridwalk/tilegrid/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "analyze zone relationships of map definition files",
		Commands: []*cli.Command{
			{
				Name:      "report",
				Usage:     "print the zone analysis of one or more map files",
				ArgsUsage: "<map-file>...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := resolveFiles(cmd)
					if err != nil {
						return err
					}
					for _, file := range files {
						report, err := analyzeMap(file)
						if err != nil {
							return fmt.Errorf("%s: %w", file, err)
						}
						fmt.Printf("\n=== %s ===\n%s", filepath.Base(file), report)
					}
					return nil
				},
			},
			{
				Name:      "write",
				Usage:     "compute zone metadata and write it back into the map files",
				ArgsUsage: "<map-file>...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := resolveFiles(cmd)
					if err != nil {
						return err
					}
					for _, file := range files {
						changed, err := writeMetadata(file)
						if err != nil {
							return fmt.Errorf("%s: %w", file, err)
						}
						if changed {
							fmt.Printf("%s: metadata updated\n", file)
						} else {
							fmt.Printf("%s: metadata already fresh\n", file)
						}
					}
					return nil
				},
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "maps-dir",
				Usage: "analyze every map file in this directory instead of naming files",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// resolveFiles turns the command line into a list of map files: explicit
// arguments win, otherwise the --maps-dir flag is globbed.
func resolveFiles(cmd *cli.Command) ([]string, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args, nil
	}

	dir := cmd.String("maps-dir")
	if dir == "" {
		return nil, fmt.Errorf("no map files given (pass files or --maps-dir)")
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no map files found in %s", dir)
	}
	return files, nil
}

// analyzeMap loads a map file, runs the analyzer over its tiles and
// renders a human-readable report of the resulting relationships.
func analyzeMap(path string) (string, error) {
	def, err := engine.LoadMapDefinition(path)
	if err != nil {
		return "", err
	}

	tm, err := def.Build()
	if err != nil {
		return "", err
	}

	graph := engine.ComputeZoneGraph(tm)
	metadata := graph.ZoneMetadata()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Name: %s\n", def.Name))
	b.WriteString(fmt.Sprintf("Squares: %d\n", tm.SquareCount()))

	zones := make([]engine.ZoneKind, 0, len(metadata))
	for zone := range metadata {
		zones = append(zones, zone)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })

	groups := map[engine.ZoneGroup][]engine.ZoneKind{}
	for _, zone := range zones {
		meta := metadata[zone]
		groups[meta.Group] = append(groups[meta.Group], zone)
	}

	b.WriteString(fmt.Sprintf("Zones: %d in %d group(s)\n\n", len(zones), len(groups)))

	for _, zone := range zones {
		meta := metadata[zone]
		succ := make([]string, len(meta.Successors))
		for i, s := range meta.Successors {
			succ[i] = string(s)
		}
		b.WriteString(fmt.Sprintf("%s: size=%d group=%d successors=[%s]\n",
			zone, meta.Size, meta.Group, strings.Join(succ, ", ")))

		for inside := range graph.SubsetsOf[zone] {
			b.WriteString(fmt.Sprintf("  contains %s\n", inside))
		}
	}

	if len(graph.Overlaps) > 0 {
		b.WriteString("\nOverlapping pairs:\n")
		var lines []string
		for pair := range graph.Overlaps {
			lines = append(lines, fmt.Sprintf("  %s / %s\n", pair[0], pair[1]))
		}
		sort.Strings(lines)
		b.WriteString(strings.Join(lines, ""))
	}

	if len(groups) > 1 {
		b.WriteString("\nNote: zones in different groups are mutually unreachable by inter-zone routing\n")
	}

	return b.String(), nil
}

// writeMetadata computes fresh zone metadata for the map file and writes
// it back in the file's own format. It reports whether the stored
// metadata actually changed.
func writeMetadata(path string) (bool, error) {
	def, err := engine.LoadMapDefinition(path)
	if err != nil {
		return false, err
	}

	tm, err := def.Build()
	if err != nil {
		return false, err
	}

	fresh := engine.ComputeZoneGraph(tm).ZoneMetadata()
	if metadataEqual(def.Zones, fresh) {
		return false, nil
	}
	def.Zones = fresh

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(def)
	default:
		data, err = json.MarshalIndent(def, "", "  ")
	}
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

func metadataEqual(a, b map[engine.ZoneKind]engine.ZoneMeta) bool {
	if len(a) != len(b) {
		return false
	}
	for zone, am := range a {
		bm, ok := b[zone]
		if !ok || am.Group != bm.Group || am.Size != bm.Size {
			return false
		}
		if len(am.Successors) != len(bm.Successors) {
			return false
		}
		for i := range am.Successors {
			if am.Successors[i] != bm.Successors[i] {
				return false
			}
		}
	}
	return true
}
