// vin-audit lists VIN collisions that would surface if case-insensitive
// uniqueness were enabled. Run before flipping VIN_CASE_INSENSITIVE on
// an existing database.
//
// Usage (from backend directory):
//
//	go run ./cmd/vin-audit [--business-id <uuid>]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattobell/dealer_backend/config"
)

type collisionRow struct {
	BusinessId string
	VinLower   string
	Count      int
	VehicleIds string
}

func main() {
	businessID := flag.String("business-id", "", "Optional: business id (uuid); all businesses when empty")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	sql := `
SELECT
    business_id,
    LOWER(vin_number) AS vin_lower,
    COUNT(*) AS count,
    GROUP_CONCAT(id ORDER BY id) AS vehicle_ids
FROM
    vehicles
WHERE
    vin_number IS NOT NULL AND vin_number <> ''
`
	args := []interface{}{}
	if strings.TrimSpace(*businessID) != "" {
		sql += "    AND business_id = ?\n"
		args = append(args, strings.TrimSpace(*businessID))
	}
	sql += `
GROUP BY
    business_id, LOWER(vin_number)
HAVING
    COUNT(*) > 1
ORDER BY
    business_id, vin_lower
`

	var rows []collisionRow
	if err := db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		fmt.Fprintf(os.Stderr, "vin audit query: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Println("no VIN collisions found")
		return
	}

	for _, row := range rows {
		fmt.Printf("business %s: vin %q appears %d times (vehicle ids %s)\n",
			row.BusinessId, row.VinLower, row.Count, row.VehicleIds)
	}
	os.Exit(2)
}
