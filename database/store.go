package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"overtimepay/calc"
	"overtimepay/models"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateCode      = errors.New("employee code already in use")
	ErrInvalidEmployee    = errors.New("invalid employee")
	ErrInvalidRecord      = errors.New("invalid overtime record")
	ErrSetupDone          = errors.New("setup already completed")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Employee status filters accepted by ListEmployees.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAll      = "all"
)

// Store is the persistence layer behind every screen. Reads hand out
// snapshots, writes validate before touching the database.
type Store struct {
	db          *gorm.DB
	concurrency int
}

func NewStore(db *gorm.DB, concurrency int) *Store {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Store{db: db, concurrency: concurrency}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Snapshot reads all employees (by name) and all records (newest first).
func (s *Store) Snapshot(ctx context.Context) (calc.Snapshot, error) {
	var snap calc.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("name asc").Find(&snap.Employees).Error; err != nil {
			return err
		}
		return tx.Order("date desc").Order("start_time desc").Find(&snap.Records).Error
	})
	return snap, err
}

// Employees

func (s *Store) ListEmployees(ctx context.Context, status string) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Order("code asc")
	switch status {
	case StatusActive:
		q = q.Where("is_active = ?", true)
	case StatusInactive:
		q = q.Where("is_active = ?", false)
	}
	var employees []models.Employee
	err := q.Find(&employees).Error
	return employees, err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func validateEmployee(e *models.Employee) error {
	switch {
	case e.Code == "":
		return fmt.Errorf("%w: code is required", ErrInvalidEmployee)
	case e.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidEmployee)
	case e.BaseSalary <= 0:
		return fmt.Errorf("%w: base salary must be greater than zero", ErrInvalidEmployee)
	}
	return nil
}

func (s *Store) codeTaken(tx *gorm.DB, code, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Employee{}).Where("UPPER(code) = ?", strings.ToUpper(code))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

// CreateEmployee normalizes and stores a new employee.
func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	e.Normalize()
	if err := validateEmployee(e); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.codeTaken(tx, e.Code, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateCode
		}
		return duplicate(tx.Create(e).Error)
	})
}

func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	e.Normalize()
	if err := validateEmployee(e); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.codeTaken(tx, e.Code, e.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateCode
		}
		res := tx.Model(&models.Employee{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
			"code":        e.Code,
			"name":        e.Name,
			"base_salary": e.BaseSalary,
		})
		if res.Error != nil {
			return duplicate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) SetEmployeeActive(ctx context.Context, id string, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateEmployees writes a batch concurrently. Every row is attempted even
// when some fail; it returns how many were written and the joined row errors.
func (s *Store) CreateEmployees(ctx context.Context, employees []models.Employee) (int, error) {
	return s.writeBatch(len(employees), func(i int) error {
		e := &employees[i]
		if err := s.CreateEmployee(ctx, e); err != nil {
			return fmt.Errorf("employee %s: %w", e.Code, err)
		}
		return nil
	})
}

// writeBatch runs write for every index with at most s.concurrency in flight.
// A failed row does not cancel the others.
func (s *Store) writeBatch(n int, write func(i int) error) (int, error) {
	errs := make([]error, n)
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = write(i)
			return nil
		})
	}
	g.Wait()

	written := 0
	for _, err := range errs {
		if err == nil {
			written++
		}
	}
	return written, errors.Join(errs...)
}

// Overtime records

func (s *Store) GetRecord(ctx context.Context, id string) (*models.OvertimeRecord, error) {
	var r models.OvertimeRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *Store) validateRecord(tx *gorm.DB, r *models.OvertimeRecord) error {
	if r.EmployeeID == "" {
		return fmt.Errorf("%w: select an employee", ErrInvalidRecord)
	}
	if _, ok := calc.ParseDate(r.Date); !ok || len(r.Date) != 10 {
		return fmt.Errorf("%w: date is required", ErrInvalidRecord)
	}
	if calc.HoursWorked(r.StartTime, r.EndTime) <= 0 {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidRecord)
	}
	if !r.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", ErrInvalidRecord, r.ServiceType)
	}
	var count int64
	if err := tx.Model(&models.Employee{}).Where("id = ?", r.EmployeeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: unknown employee", ErrInvalidRecord)
	}
	return nil
}

func (s *Store) CreateRecord(ctx context.Context, r *models.OvertimeRecord) error {
	r.Normalize()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateRecord(tx, r); err != nil {
			return err
		}
		return tx.Create(r).Error
	})
}

func (s *Store) UpdateRecord(ctx context.Context, r *models.OvertimeRecord) error {
	r.Normalize()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateRecord(tx, r); err != nil {
			return err
		}
		res := tx.Model(&models.OvertimeRecord{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
			"employee_id":  r.EmployeeID,
			"date":         r.Date,
			"start_time":   r.StartTime,
			"end_time":     r.EndTime,
			"service_type": r.ServiceType,
			"observation":  r.Observation,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OvertimeRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateRecords writes a batch concurrently, see CreateEmployees.
func (s *Store) CreateRecords(ctx context.Context, records []models.OvertimeRecord) (int, error) {
	return s.writeBatch(len(records), func(i int) error {
		r := &records[i]
		if err := s.CreateRecord(ctx, r); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		return nil
	})
}

// Users

func normalizeUsername(username string) string {
	return strings.ToUpper(strings.TrimSpace(username))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func (s *Store) NeedsSetup(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func createUser(tx *gorm.DB, username, password string, role models.Role, mustChange bool) (*models.User, error) {
	username = normalizeUsername(username)
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		MustChangePassword: mustChange,
	}
	if err := tx.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// SetupAdmin creates the first administrator. It fails once any user exists.
func (s *Store) SetupAdmin(ctx context.Context, username, password string) (*models.User, error) {
	var admin *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSetupDone
		}
		u, err := createUser(tx, username, password, models.RoleAdmin, false)
		admin = u
		return err
	})
	return admin, err
}

// CreateUser adds a user whose initial password must be changed on first login.
func (s *Store) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := createUser(tx, username, password, role, true)
		user = u
		return err
	})
	return user, err
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", normalizeUsername(username)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Authenticate returns the user for a username/password pair.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("username asc").Find(&users).Error
	return users, err
}

// UpdatePassword stores a new password and clears the forced change flag.
func (s *Store) UpdatePassword(ctx context.Context, id uint, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": false,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
