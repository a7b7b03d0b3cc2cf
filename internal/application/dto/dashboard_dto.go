package dto

// DashboardResponse resumen de la pantalla inicial.
type DashboardResponse struct {
	TotalItems    int            `json:"total_items"`
	LowStockCount int            `json:"low_stock_count"`
	CartCount     int            `json:"cart_count"`
	RecentItems   []ItemResponse `json:"recent_items"`
	LowStockItems []ItemResponse `json:"low_stock_items"`
}
