package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/cache"
	"github.com/zapponejosh/panchang-api/internal/ephemeris"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
	"github.com/zapponejosh/panchang-api/internal/places"
	"github.com/zapponejosh/panchang-api/internal/render"
)

const defaultTimezone = 5.5

// cli holds global flags and the collaborators every command shares.
type cli struct {
	out    io.Writer
	errOut io.Writer

	verbose    bool
	refine     bool
	placesFile string
	cachePath  string
	workers    int

	logger *slog.Logger
	now    func() time.Time

	// newGenerator builds the report source; tests replace it.
	newGenerator func(ctx context.Context) (cache.Generator, func() error, error)
}

// locationFlags are shared by every report command.
type locationFlags struct {
	place  string
	lat    float64
	lon    float64
	tz     float64
	format string
}

func newCLI(out, errOut io.Writer) *cli {
	c := &cli{out: out, errOut: errOut, now: time.Now}
	c.newGenerator = c.defaultGenerator
	return c
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "panchang",
		Short:        "Tamil Panchang calculator",
		Long:         `panchang computes the Tamil Panchang (tithi, nakshatra, yoga, karana, inauspicious periods, Gowri Panchangam and hora) for a date and place.`,
		Version:      api.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = logger.New(c.errOut, level, "text")
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&c.refine, "refine", false, "refine transition times to the second")
	root.PersistentFlags().StringVar(&c.placesFile, "places", "", "TOML place catalogue (default: built-in)")
	root.PersistentFlags().StringVar(&c.cachePath, "cache", "", "SQLite file to cache reports in")

	root.AddCommand(c.reportCommand())
	root.AddCommand(c.todayCommand())
	root.AddCommand(c.rangeCommand())
	root.AddCommand(c.placesCommand())

	return root
}

func (c *cli) reportCommand() *cobra.Command {
	var (
		date string
		loc  locationFlags
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the panchang for a date",
		Example: `  panchang report --date 2024-01-15 --place chennai
  panchang report --date 2024-01-15 --lat 9.9252 --lon 78.1198 --format markdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				return fmt.Errorf("--date is required")
			}
			return c.runReports(cmd, loc, func(tz float64) ([]string, error) {
				return []string{date}, nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "civil date, YYYY-MM-DD")
	loc.register(cmd)
	return cmd
}

func (c *cli) todayCommand() *cobra.Command {
	var loc locationFlags
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print today's panchang at the place's UTC offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReports(cmd, loc, func(tz float64) ([]string, error) {
				return []string{panchang.CivilDate(c.now(), tz)}, nil
			})
		},
	}
	loc.register(cmd)
	return cmd
}

func (c *cli) rangeCommand() *cobra.Command {
	var (
		start, end string
		workers    int
		loc        locationFlags
	)
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the panchang for every date from --start to --end",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.workers = workers
			return c.runReports(cmd, loc, func(float64) ([]string, error) {
				return dateRange(start, end)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD")
	cmd.Flags().IntVar(&workers, "workers", 4, "reports computed in parallel")
	loc.register(cmd)
	return cmd
}

func (c *cli) placesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List the known places",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := places.Load(c.placesFile)
			if err != nil {
				return err
			}
			for _, p := range catalogue.All() {
				fmt.Fprintf(c.out, "%-16s %-18s %s, %s  %s\n", p.Slug, p.Name,
					render.Latitude(p.Latitude), render.Longitude(p.Longitude), render.Offset(p.Timezone))
			}
			return nil
		},
	}
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.place, "place", "p", "", "place name from the catalogue")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in degrees, north positive")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude in degrees, east positive")
	cmd.Flags().Float64Var(&f.tz, "tz", defaultTimezone, "UTC offset in hours")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "output format: text, json or markdown")
}

// resolve returns the location and offset selected by the flags. An explicit
// --tz wins over the place's offset.
func (f locationFlags) resolve(cmd *cobra.Command, catalogue *places.Catalogue) (panchang.Location, float64, error) {
	tzSet := cmd.Flags().Changed("tz")
	if f.place != "" {
		p, err := catalogue.Lookup(f.place)
		if err != nil {
			return panchang.Location{}, 0, err
		}
		tz := p.Timezone
		if tzSet {
			tz = f.tz
		}
		return p.Location(), tz, nil
	}
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return panchang.Location{}, 0, fmt.Errorf("either --place or both --lat and --lon are required")
	}
	return panchang.Location{Latitude: f.lat, Longitude: f.lon}, f.tz, nil
}

func (c *cli) runReports(cmd *cobra.Command, flags locationFlags, dates func(tz float64) ([]string, error)) error {
	ctx := cmd.Context()

	if err := checkFormat(flags.format); err != nil {
		return err
	}
	catalogue, err := places.Load(c.placesFile)
	if err != nil {
		return err
	}
	loc, tz, err := flags.resolve(cmd, catalogue)
	if err != nil {
		return err
	}
	list, err := dates(tz)
	if err != nil {
		return err
	}

	reqs := make([]panchang.Request, len(list))
	for i, d := range list {
		if reqs[i], err = panchang.NewRequest(d, loc.Latitude, loc.Longitude, tz); err != nil {
			return err
		}
	}

	gen, closeGen, err := c.newGenerator(ctx)
	if err != nil {
		return err
	}
	defer closeGen()

	start := time.Now()
	reports, err := api.GenerateAll(ctx, gen, reqs, max(c.workers, 1))
	if err != nil {
		return err
	}
	c.logger.Debug("reports generated", slog.Int("count", len(reports)), slog.Duration("took", time.Since(start)))

	return c.print(flags.format, reports)
}

func (c *cli) print(format string, reports []*panchang.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case "markdown":
		parts := make([]string, len(reports))
		for i, r := range reports {
			parts[i] = render.Markdown(r)
		}
		_, err := io.WriteString(c.out, strings.Join(parts, "\n---\n\n"))
		return err
	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(c.out)
			}
			if _, err := io.WriteString(c.out, render.Terminal(r)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (c *cli) defaultGenerator(ctx context.Context) (cache.Generator, func() error, error) {
	engine := panchang.New(ephemeris.New(), panchang.WithScanOptions(panchang.ScanOptions{Refine: c.refine}))

	store := cache.NewNullCache()
	if c.cachePath != "" {
		sq, err := cache.NewSQLiteCache(ctx, c.cachePath, c.logger)
		if err != nil {
			return nil, nil, err
		}
		store = sq
	}

	variant := "minute"
	if c.refine {
		variant = "refine"
	}
	return cache.NewEngine(engine, store, cache.WithVariant(variant)), store.Close, nil
}

func checkFormat(f string) error {
	switch f {
	case "text", "json", "markdown":
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json or markdown", f)
	}
}

// maxRangeDays bounds a single range command.
const maxRangeDays = 366

func dateRange(start, end string) ([]string, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("--start and --end are required")
	}
	from, err := panchang.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := panchang.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("--end %s is before --start %s", end, start)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if len(dates) == maxRangeDays {
			return nil, fmt.Errorf("range is longer than %d days", maxRangeDays)
		}
		dates = append(dates, d.Format(panchang.DateLayout))
	}
	return dates, nil
}
