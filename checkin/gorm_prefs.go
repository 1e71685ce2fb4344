package checkin

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justyn/meow/models"
)

// GormPrefs persists a named preference store as rows in the preferences
// table. String sets are stored as sorted JSON arrays so commits are
// deterministic. Edit applies every batched mutation inside one transaction.
type GormPrefs struct {
	db    *gorm.DB
	store string
}

// NewGormPrefs opens the named store over db.
func NewGormPrefs(db *gorm.DB, store string) *GormPrefs {
	return &GormPrefs{db: db, store: store}
}

// get reads one row. A missing row is absence; any other DB error is a
// failure the caller must not confuse with an empty store.
func (p *GormPrefs) get(key string) (string, bool, error) {
	var row models.Preference
	err := p.db.Where("store = ? AND pref_key = ?", p.store, key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (p *GormPrefs) GetString(key string) (string, bool, error) {
	return p.get(key)
}

func (p *GormPrefs) GetInt(key string) (int, bool, error) {
	raw, ok, err := p.get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (p *GormPrefs) GetStringSet(key string) (map[string]struct{}, bool, error) {
	raw, ok, err := p.get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	var values []string
	if jsonErr := json.Unmarshal([]byte(raw), &values); jsonErr != nil {
		return nil, false, nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set, true, nil
}

func (p *GormPrefs) Contains(key string) (bool, error) {
	_, ok, err := p.get(key)
	return ok, err
}

type gormOp struct {
	key    string
	value  string
	remove bool
}

type gormEditor struct {
	ops []gormOp
}

func (e *gormEditor) PutString(key, value string) Editor {
	e.ops = append(e.ops, gormOp{key: key, value: value})
	return e
}

func (e *gormEditor) PutInt(key string, value int) Editor {
	e.ops = append(e.ops, gormOp{key: key, value: strconv.Itoa(value)})
	return e
}

func (e *gormEditor) PutStringSet(key string, values map[string]struct{}) Editor {
	list := make([]string, 0, len(values))
	for v := range values {
		list = append(list, v)
	}
	sort.Strings(list)
	encoded, err := json.Marshal(list)
	if err != nil {
		// []string cannot fail to marshal; keep the key untouched if it somehow does
		return e
	}
	e.ops = append(e.ops, gormOp{key: key, value: string(encoded)})
	return e
}

func (e *gormEditor) Remove(key string) Editor {
	e.ops = append(e.ops, gormOp{key: key, remove: true})
	return e
}

// Edit commits all batched mutations in a single transaction.
func (p *GormPrefs) Edit(apply func(Editor)) error {
	e := &gormEditor{}
	apply(e)
	if len(e.ops) == 0 {
		return nil
	}
	return p.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range e.ops {
			if op.remove {
				if err := tx.Where("store = ? AND pref_key = ?", p.store, op.key).
					Delete(&models.Preference{}).Error; err != nil {
					return err
				}
				continue
			}
			row := models.Preference{Store: p.store, Key: op.key, Value: op.value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "store"}, {Name: "pref_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
