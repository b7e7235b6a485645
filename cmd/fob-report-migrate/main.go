package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/mmdatafocus/coffee_export_backend/models"
	"github.com/sirupsen/logrus"
)

// fob-report-migrate moves the legacy single report number of every contract
// (contracts.fob_report_no) into its report records, then prints every report
// number that is held more than once within a harvest year and company.
//
// Run it once, off-hours. Collisions are reported, never resolved.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, do not write; only print actions")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	logger := config.GetLogger()
	ctx := context.Background()

	if *dryRun {
		fmt.Println("[dry-run] no changes will be written")
	}

	legacy, err := models.LoadLegacyContracts(ctx)
	if err != nil {
		config.LogError(logger, "fob-report-migrate", "main", "LoadLegacyContracts", nil, err)
		os.Exit(1)
	}

	migrated := 0
	for i := range legacy {
		contract := legacy[i]
		reportNo := strings.TrimSpace(contract.LegacyReportNo)
		if !contract.FoldLegacyReport() {
			continue
		}
		fmt.Printf("contract %d (%s): legacy report %q -> report records\n", contract.ID, contract.ContractNumber, reportNo)
		if *dryRun {
			continue
		}
		if err := models.SaveContract(ctx, &contract); err != nil {
			config.LogError(logger, "fob-report-migrate", "main", "SaveContract", contract.ID, err)
			os.Exit(1)
		}
		migrated++
	}
	logger.WithFields(logrus.Fields{
		"module":   "fob-report-migrate",
		"found":    len(legacy),
		"migrated": migrated,
		"dry_run":  *dryRun,
	}).Info("legacy report numbers folded")

	all, err := models.LoadContracts(ctx)
	if err != nil {
		config.LogError(logger, "fob-report-migrate", "main", "LoadContracts", nil, err)
		os.Exit(1)
	}
	collisions := models.FindReportNumberCollisions(all)
	if len(collisions) == 0 {
		fmt.Println("no duplicate report numbers")
		return
	}
	fmt.Printf("%d duplicate report numbers:\n", len(collisions))
	for _, col := range collisions {
		holders := make([]string, 0, len(col.Holders))
		for _, h := range col.Holders {
			holders = append(holders, fmt.Sprintf("%s (id %d)", h.ContractNumber, h.ContractId))
		}
		fmt.Printf("  %s / %s / %s: %s\n", col.HarvestYear, col.Company, col.ReportNo, strings.Join(holders, ", "))
	}
}
