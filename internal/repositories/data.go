package repositories

import (
	"context"
	"github.com/pkg/errors"
	"github.com/skillzen/career-api/internal/entities"
	"gorm.io/gorm"
	"unicode/utf8"
)

// Data is a key-value store over a single table. Keys are prefixed with the namespace.
type Data struct {
	db        *gorm.DB
	namespace string
}

func NewDataRepository(db *gorm.DB, namespace string) *Data {
	return &Data{db: db, namespace: namespace}
}

func (repo *Data) Save(ctx context.Context, id string, data []byte) error {
	return repo.db.WithContext(ctx).Save(&entities.KeyValue{
		ID:    repo.key(id),
		Value: data,
	}).Error
}

func (repo *Data) Load(ctx context.Context, id string) ([]byte, error) {
	data := &entities.KeyValue{}
	err := repo.db.WithContext(ctx).First(data, "id = ?", repo.key(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data.Value, nil
}

func (repo *Data) Remove(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Delete(&entities.KeyValue{}, "id = ?", repo.key(id)).Error
}

func (repo *Data) Clear(ctx context.Context) error {
	prefix := repo.key("")
	return repo.db.WithContext(ctx).
		Delete(&entities.KeyValue{}, "substr(id, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).Error
}

func (repo *Data) key(id string) string {
	return repo.namespace + ":" + id
}
