// Package settlement aggregates unsettled delivery fees per restaurant and
// flips them to settled in one all-or-nothing batch.
package settlement

import (
	"fmt"

	"pedidos-api/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportRow is one restaurant's payout line.
type ReportRow struct {
	RestaurantID uint    `json:"restaurant_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PendingTotal float64 `json:"pending_total"`
	SettledTotal float64 `json:"settled_total"`
}

// Report sums delivery fees per restaurant, split by the settled flag, for
// every restaurant account — including ones with nothing pending yet.
func Report(db *gorm.DB) ([]ReportRow, error) {
	var restaurants []models.User
	if err := db.Where("role = ?", models.RoleRestaurant).Order("name asc").Find(&restaurants).Error; err != nil {
		return nil, err
	}

	type feeSum struct {
		RestaurantID uint
		Settled      bool
		Total        float64
	}
	var sums []feeSum
	err := db.Model(&models.Order{}).
		Select("restaurant_id, settled, SUM(delivery_fee) AS total").
		Where("restaurant_id IS NOT NULL").
		Group("restaurant_id, settled").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	byRestaurant := map[uint]*ReportRow{}
	rows := make([]ReportRow, len(restaurants))
	for i, r := range restaurants {
		rows[i] = ReportRow{RestaurantID: r.ID, Name: r.Name, Email: r.Email}
		byRestaurant[r.ID] = &rows[i]
	}
	for _, s := range sums {
		row, ok := byRestaurant[s.RestaurantID]
		if !ok {
			continue
		}
		if s.Settled {
			row.SettledTotal = s.Total
		} else {
			row.PendingTotal = s.Total
		}
	}
	return rows, nil
}

// Settle re-reads the currently-unsettled orders for one restaurant and marks
// every one of them settled inside a single transaction. Either the whole
// batch commits or none of it does; a partially settled batch never survives.
// Returns how many orders were flagged.
func Settle(db *gorm.DB, restaurantID uint) (int, error) {
	count := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Where("restaurant_id = ? AND settled = ?", restaurantID, false).
			Find(&orders).Error; err != nil {
			return err
		}
		for _, o := range orders {
			if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).
				Update("settled", true).Error; err != nil {
				return err
			}
		}
		count = len(orders)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Workbook sheet layout mirrors the report the admins have always exported.
const sheetName = "Reporte de Delivery"

var headers = []string{"Nombre del Restaurante", "Email", "Total Pendiente (₲)", "Total Liquidado (₲)"}

// BuildWorkbook renders the payout report as a spreadsheet.
func BuildWorkbook(rows []ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		values := []interface{}{row.Name, row.Email, row.PendingTotal, row.SettledTotal}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// Filename is the suggested attachment name for an export generated on day.
func Filename(day string) string {
	return fmt.Sprintf("ReporteDelivery_%s.xlsx", day)
}
