package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	needsDB bool
	warning bool // failures are reported but do not fail the command
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Coach API key", run: checkAPIKey, warning: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if c.name == "Database reachable" {
				dbReachable = true
			}
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetAllHabits(false, false); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !st.UpToDate() {
		return fmt.Errorf("schema version %d, latest is %d; run 'habitlit migrate'", st.Current, st.Latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	snap, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}
	result := validation.Check(snap, ctx.Today())
	if result.HasIssues() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if ctx.Clock != nil {
		now = ctx.Clock()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if tz := ctx.Settings().Timezone; !utils.ValidateTimezone(tz) {
		return fmt.Errorf("configured timezone %q is not valid", tz)
	}
	return nil
}

func checkAPIKey(ctx *cli.Context) error {
	if ctx.Settings().Coach.Provider == "offline" {
		return nil
	}
	_, source, err := keyring.ResolveAPIKey()
	if err != nil {
		return fmt.Errorf("no coach API key (%v); chat will use offline replies", err)
	}
	fmt.Printf("   using key from %s\n", source)
	return nil
}
