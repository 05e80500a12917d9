package entities

type KeyValue struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}
