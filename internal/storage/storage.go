package storage

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"calctree/internal/auth"
	"calctree/internal/calculation"
	"calctree/internal/models"
)

// Open opens (or creates) the sqlite database at filepath and migrates the
// schema. Pass ":memory:" for a throwaway database in tests.
func Open(filepath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(filepath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.StartingNumber{}, &models.Operation{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Store is the gorm-backed implementation of the auth and calculation
// store contracts.
type Store struct {
	db *gorm.DB
}

var (
	_ auth.UserStore    = (*Store)(nil)
	_ calculation.Store = (*Store)(nil)
)

func (s *Store) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) CreateStartingNumber(sn *models.StartingNumber) error {
	return s.db.Create(sn).Error
}

func (s *Store) FindStartingNumberByID(id int64) (*models.StartingNumber, error) {
	var sn models.StartingNumber
	err := s.db.First(&sn, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sn, nil
}

func (s *Store) CreateOperation(op *models.Operation) error {
	return s.db.Create(op).Error
}

func (s *Store) FindOperationByID(id int64) (*models.Operation, error) {
	var op models.Operation
	err := s.db.First(&op, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// ListStartingNumbers returns every user's starting numbers, newest first.
// The id tiebreak keeps the order deterministic when timestamps collide;
// ids are insertion-ordered, so it agrees with creation order.
func (s *Store) ListStartingNumbers() ([]models.StartingNumber, error) {
	var startings []models.StartingNumber
	err := s.db.Order("created_at DESC, id DESC").Find(&startings).Error
	return startings, err
}

// ListChildOperations returns the direct children of parent, oldest first.
func (s *Store) ListChildOperations(parent calculation.ParentRef) ([]models.Operation, error) {
	query := s.db.Order("created_at ASC, id ASC")
	if parent.Kind == calculation.ParentStarting {
		query = query.Where("parent_id = ?", parent.ID)
	} else {
		query = query.Where("parent_operation_id = ?", parent.ID)
	}

	var ops []models.Operation
	err := query.Find(&ops).Error
	return ops, err
}
