// catalog-resync repairs drift between vehicles, catalog entries and
// serial units for one business, or for every business when none is
// given.
//
// Usage (from backend directory):
//
//	go run ./cmd/catalog-resync --business-id <uuid>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
	"github.com/mattobell/dealer_backend/workflow"
)

func main() {
	businessID := flag.String("business-id", "", "Optional: business id (uuid); all businesses when empty")
	continueOnError := flag.Bool("continue-on-error", false, "Skip failing businesses and continue")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	var businessIDs []string
	if strings.TrimSpace(*businessID) != "" {
		businessIDs = append(businessIDs, strings.TrimSpace(*businessID))
	} else {
		var businesses []*models.Business
		if err := db.Model(&models.Business{}).Select("id").Find(&businesses).Error; err != nil {
			fmt.Fprintf(os.Stderr, "discover businesses: %v\n", err)
			os.Exit(1)
		}
		for _, b := range businesses {
			businessIDs = append(businessIDs, b.ID.String())
		}
	}

	failed := 0
	for _, id := range businessIDs {
		ctx := context.Background()
		ctx = utils.SetBusinessIdInContext(ctx, id)
		ctx = utils.SetUserIdInContext(ctx, 0)
		ctx = utils.SetUserNameInContext(ctx, "System")

		report, err := workflow.ReconcileCatalog(ctx, id)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "business %s: %v\n", id, err)
			if !*continueOnError {
				os.Exit(1)
			}
			continue
		}
		fmt.Printf("business %s: missing_entries=%d availability_fixes=%d serial_status_fixes=%d orphaned_serial_rows=%d\n",
			id, report.MissingEntries, report.AvailabilityFixes, report.SerialStatusFixes, report.OrphanedSerialRows)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
