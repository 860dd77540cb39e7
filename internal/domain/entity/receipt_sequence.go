package entity

// ReceiptSequence is the single-row allocator for official receipt numbers.
// It is incremented inside the settlement transaction so a number is assigned
// exactly once per fully settled order, strictly monotonically.
type ReceiptSequence struct {
	ID     int   `gorm:"primary_key" json:"id"`
	NextNo int64 `gorm:"not null" json:"next_no"`
}

func (ReceiptSequence) TableName() string {
	return "receipt_sequences"
}
