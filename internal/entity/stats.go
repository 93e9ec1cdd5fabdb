package entity

// DatabaseStats mirrors the admin dashboard counters.
type DatabaseStats struct {
	Users              int64 `json:"users"`
	Admins             int64 `json:"admins"`
	RegularUsers       int64 `json:"regular_users"`
	Categories         int64 `json:"categories"`
	Equipment          int64 `json:"equipment"`
	AvailableEquipment int64 `json:"available_equipment"`
	BorrowedEquipment  int64 `json:"borrowed_equipment"`
	Bookings           int64 `json:"bookings"`
	ActiveBookings     int64 `json:"active_bookings"`
	OngoingBookings    int64 `json:"ongoing_bookings"`
	CompletedBookings  int64 `json:"completed_bookings"`
	CancelledBookings  int64 `json:"cancelled_bookings"`
}

// CleanupResult reports the outcome of one administrative cleanup operation.
type CleanupResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
	Operation    string `json:"operation"`
}
