package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ozikit/ozi/internal/config"
	"github.com/ozikit/ozi/internal/geojson"
	"github.com/ozikit/ozi/internal/storage"
	"github.com/ozikit/ozi/pkg/ozi"
	"github.com/spf13/cobra"
)

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file.wpt>",
		Short: "print the header and waypoints of a waypoint file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, wps, err := ozi.ReadWaypointsFile(args[0])
			if err != nil {
				return err
			}
			printWaypoints(cmd.OutOrStdout(), props, wps)
			return nil
		},
	}
}

func printWaypoints(w io.Writer, props ozi.FileProperties, wps []*ozi.Waypoint) {
	fmt.Fprintf(w, "Version: %s\nDatum:   %s\n", props.Version(), props.Datum())
	for _, wp := range wps {
		when := "-"
		if t, ok := wp.Time(); ok {
			when = t.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%5d  %-24s %11.6f %11.6f  %s\n", wp.Number, wp.Name, wp.Latitude, wp.Longitude, when)
	}
}

func (a *app) importCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file.wpt>",
		Short: "store a waypoint file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, wps, err := ozi.ReadWaypointsFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			return a.withBackend(func(b storage.Backend) error {
				if err := b.SaveSet(name, props, wps); err != nil {
					return err
				}
				a.logger().Info("Imported waypoint file", "path", args[0], "name", name, "count", len(wps))
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d waypoints as %q\n", len(wps), name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the stored set (default: file name)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <out.wpt>",
		Short: "write a stored set as a waypoint file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b storage.Backend) error {
				props, wps, err := b.LoadSet(args[0])
				if err != nil {
					return err
				}
				if err := ozi.WriteWaypointsFile(args[1], wps, props); err != nil {
					return err
				}
				a.logger().Info("Exported waypoint set", "name", args[0], "path", args[1], "count", len(wps))
				return nil
			})
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(func(b storage.Backend) error {
				infos, err := b.ListSets()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, info := range infos {
					fmt.Fprintf(out, "%-24s %5d  %-16s %s\n",
						info.Name, info.Count, info.Datum, info.UpdatedAt.UTC().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "delete a stored set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b storage.Backend) error {
				if err := b.DeleteSet(args[0]); err != nil {
					return err
				}
				a.logger().Info("Deleted waypoint set", "name", args[0])
				return nil
			})
		},
	}
}

func (a *app) geojsonCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "geojson <file.wpt>",
		Short: "convert a waypoint file to GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, wps, err := ozi.ReadWaypointsFile(args[0])
			if err != nil {
				return err
			}
			fc, err := geojson.FromWaypoints(wps)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, ferr := os.Create(output)
				if ferr != nil {
					return fmt.Errorf("failed to create %s: %w", output, ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				out = f
			}

			return geojson.Write(out, fc, config.GetBool("geojson.pretty"))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) buildCmd() *cobra.Command {
	var datum, version string
	cmd := &cobra.Command{
		Use:   "build <in.json> <out.wpt>",
		Short: "build a waypoint file from a JSON array of waypoint attributes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wps, err := readAttributes(args[0])
			if err != nil {
				return err
			}

			fileCfg := config.GetFileConfig()
			if datum == "" {
				datum = fileCfg.Datum
			}
			if version == "" {
				version = fileCfg.Version
			}

			if err := ozi.WriteWaypointsFile(args[1], wps, ozi.NewFileProperties(datum, version)); err != nil {
				return err
			}
			a.logger().Info("Built waypoint file", "path", args[1], "count", len(wps))
			return nil
		},
	}
	cmd.Flags().StringVar(&datum, "datum", "", "datum written to the header (default from config)")
	cmd.Flags().StringVar(&version, "version", "", "format version written to the header (default from config)")
	return cmd
}

// readAttributes decodes a JSON array of attribute objects into waypoints.
func readAttributes(path string) ([]*ozi.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	wps := make([]*ozi.Waypoint, len(objs))
	for i, attrs := range objs {
		wp, err := ozi.DecodeWaypoint(attrs)
		if err == nil {
			err = wp.Validate()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: waypoint %d: %w", path, i, err)
		}
		wps[i] = wp
	}
	return wps, nil
}

func (a *app) nstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nst <file.wpt> <out.nst>",
		Short: "convert a waypoint file to a name search file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, wps, err := ozi.ReadWaypointsFile(args[0])
			if err != nil {
				return err
			}

			nst := ozi.NewNameSearchText()
			nst.Comment = "Converted from " + filepath.Base(args[0])
			nst.Datum = props.Datum()
			for _, wp := range wps {
				nst.Names = append(nst.Names, ozi.Name{
					Name:      wp.Name,
					Latitude:  wp.Latitude,
					Longitude: wp.Longitude,
				})
			}
			return ozi.WriteNameSearchTextFile(args[1], nst)
		},
	}
}

func (a *app) trackCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "track <file.wpt> <out.plt>",
		Short: "join the waypoints of a file into a track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, wps, err := ozi.ReadWaypointsFile(args[0])
			if err != nil {
				return err
			}

			t := ozi.NewTrack()
			t.Description = description
			for i, wp := range wps {
				p := ozi.NewTrackPoint(wp.Latitude, wp.Longitude)
				p.Break = i == 0
				p.Altitude = wp.Altitude
				p.Date = wp.Date
				t.Points = append(t.Points, p)
			}
			return ozi.WriteTrackFile(args[1], t)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "track description")
	return cmd
}
