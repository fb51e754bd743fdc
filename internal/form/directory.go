// Package form implements the sign-in and registration forms: field state,
// ordered validation rules and an in-memory account directory.
package form

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// Role is an account role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// RegistrableRoles are the roles a user can pick when registering.
var RegistrableRoles = []Role{RolePatient, RoleDoctor}

// Account is a directory entry.
type Account struct {
	Username  string
	Email     string
	Role      Role
	CreatedAt time.Time
	hash      []byte
}

// Directory is an in-memory account store. It is safe for concurrent use.
type Directory struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	cost     int
	accounts map[string]*Account // by username
	emails   map[string]string   // lowercased email -> username
}

// NewDirectory creates an empty directory hashing with the given bcrypt
// cost. A cost of zero means bcrypt.DefaultCost.
func NewDirectory(cost int, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Directory{
		logger:   logger,
		cost:     cost,
		accounts: make(map[string]*Account),
		emails:   make(map[string]string),
	}
}

// DemoAccount is a seeded account with its plain-text password.
type DemoAccount struct {
	Username string
	Email    string
	Password string
	Role     Role
}

// DemoAccounts are the accounts NewDemoDirectory seeds.
var DemoAccounts = []DemoAccount{
	{Username: "admin", Email: "admin@miposta.com", Password: "admin123", Role: RoleAdmin},
	{Username: "drjuan", Email: "drjuan@miposta.com", Password: "medico123", Role: RoleDoctor},
	{Username: "dramaria", Email: "dramaria@miposta.com", Password: "medico123", Role: RoleDoctor},
	{Username: "carlos", Email: "carlos@mail.com", Password: "paciente123", Role: RolePatient},
	{Username: "ana", Email: "ana@mail.com", Password: "paciente123", Role: RolePatient},
}

// NewDemoDirectory creates a directory seeded with DemoAccounts. Seeding
// skips the registration rules.
func NewDemoDirectory(cost int, logger *slog.Logger) (*Directory, error) {
	d := NewDirectory(cost, logger)
	for _, a := range DemoAccounts {
		if _, err := d.add(a.Username, a.Email, a.Password, a.Role); err != nil {
			return nil, fmt.Errorf("seed %s: %w", a.Username, err)
		}
	}
	return d, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (d *Directory) Authenticate(username, password string) (*Account, error) {
	d.mu.RLock()
	acc, ok := d.accounts[strings.TrimSpace(username)]
	d.mu.RUnlock()

	if !ok {
		// Match the timing of the wrong-password path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	d.logger.Debug("account authenticated", "username", acc.Username, "role", acc.Role)
	return acc, nil
}

// Register adds an account.
func (d *Directory) Register(username, email, password string, role Role) (*Account, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if role != RolePatient && role != RoleDoctor {
		return nil, ErrInvalidRole
	}
	acc, err := d.add(username, email, password, role)
	if err != nil {
		return nil, err
	}
	d.logger.Info("account registered", "username", acc.Username, "role", acc.Role)
	return acc, nil
}

func (d *Directory) add(username, email, password string, role Role) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrRequired
	}

	// Hash outside the lock.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[username]; ok {
		return nil, ErrUsernameTaken
	}
	if _, ok := d.emails[strings.ToLower(email)]; ok {
		return nil, ErrEmailTaken
	}

	acc := &Account{
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
		hash:      hash,
	}
	d.accounts[username] = acc
	d.emails[strings.ToLower(email)] = username
	return acc, nil
}

// UsernameTaken reports whether username is registered.
func (d *Directory) UsernameTaken(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.accounts[strings.TrimSpace(username)]
	return ok
}

// EmailTaken reports whether email is registered, ignoring case.
func (d *Directory) EmailTaken(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

// dummyHash is compared against when the username is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("toastui-dummy-password"), bcrypt.MinCost)
