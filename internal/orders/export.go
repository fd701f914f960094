package orders

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet = "Orders"
	itemsSheet  = "Items"

	// ExportContentType is the MIME type of WriteWorkbook's output.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	orderHeadings = []any{"Order ID", "Date", "Status", "Order Type", "Payment Method", "Cashier", "Reference", "Items", "Total"}
	itemHeadings  = []any{"Order ID", "Item", "Category", "Quantity", "Price", "Addons"}
)

// WriteWorkbook renders views as an XLSX file: one row per order on Orders, one row per line on Items.
func WriteWorkbook(w io.Writer, views []OrderView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(ordersSheet, "A1", &orderHeadings); err != nil {
		return err
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemHeadings); err != nil {
		return err
	}

	itemRow := 2
	for i, view := range views {
		row := []any{
			view.ID,
			view.Date,
			view.Status,
			view.OrderType,
			view.PaymentMethod,
			view.CashierName,
			deref(view.GCashReference),
			view.ItemCount,
			view.Total,
		}
		if err := f.SetSheetRow(ordersSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
		for _, item := range view.Items {
			line := []any{view.ID, item.Name, item.Category, item.Quantity, item.Price, formatAddons(item.Addons)}
			if err := f.SetSheetRow(itemsSheet, fmt.Sprintf("A%d", itemRow), &line); err != nil {
				return err
			}
			itemRow++
		}
	}

	return f.Write(w)
}

func formatAddons(addons map[string]any) string {
	if len(addons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(addons))
	for name, qty := range addons {
		parts = append(parts, fmt.Sprintf("%s x%v", name, qty))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
