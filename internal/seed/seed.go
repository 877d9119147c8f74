// Package seed loads reference data (users, categories, teams and equipment)
// from a YAML file. Records are matched on their natural key and existing
// ones are left untouched, so a file can be loaded more than once.
package seed

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/repository"
	"gearguard-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// File is the layout of a seed file
type File struct {
	Users      []User      `yaml:"users"`
	Categories []Category  `yaml:"categories"`
	Teams      []Team      `yaml:"teams"`
	Equipment  []Equipment `yaml:"equipment"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Category struct {
	Name  string `yaml:"name"`
	Color int    `yaml:"color"`
	Note  string `yaml:"note"`
}

type Team struct {
	Name    string   `yaml:"name"`
	Color   int      `yaml:"color"`
	Members []string `yaml:"members"`
}

// Equipment references its category and team by name and its technician by email
type Equipment struct {
	Name         string `yaml:"name"`
	SerialNumber string `yaml:"serial_number"`
	Category     string `yaml:"category"`
	Team         string `yaml:"team"`
	Technician   string `yaml:"technician"`
	Department   string `yaml:"department"`
	Employee     string `yaml:"employee"`
	PurchaseDate string `yaml:"purchase_date"`
	WarrantyDate string `yaml:"warranty_date"`
	Location     string `yaml:"location"`
	Notes        string `yaml:"notes"`
}

// Parse decodes a seed file, rejecting unknown keys
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Result counts what a load created and skipped
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Repositories are the lookups used to find existing records
type Repositories struct {
	Users      repository.UserRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	Teams      repository.TeamRepositoryInterface
	Equipment  repository.EquipmentRepositoryInterface
}

// Services create the records, applying the same validation as the API
type Services struct {
	Users      service.UserServiceInterface
	Categories service.CategoryServiceInterface
	Teams      service.TeamServiceInterface
	Equipment  service.EquipmentServiceInterface
}

// Loader writes a seed file through the services
type Loader struct {
	repos Repositories
	svc   Services
	log   *logrus.Entry
}

// NewLoader creates a loader
func NewLoader(repos Repositories, svc Services) *Loader {
	return &Loader{repos: repos, svc: svc, log: logrus.WithField("component", "seed")}
}

// Load creates the records of f in dependency order
func (l *Loader) Load(f *File) (*Result, error) {
	res := &Result{}
	users := map[string]uuid.UUID{}
	categories := map[string]uuid.UUID{}
	teams := map[string]uuid.UUID{}

	for _, u := range f.Users {
		id, created, err := l.user(u)
		if err != nil {
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}
		users[u.Email] = id
		res.count(created)
	}

	for _, c := range f.Categories {
		id, created, err := l.category(c)
		if err != nil {
			return res, fmt.Errorf("category %s: %w", c.Name, err)
		}
		categories[c.Name] = id
		res.count(created)
	}

	for _, t := range f.Teams {
		id, created, err := l.team(t, users)
		if err != nil {
			return res, fmt.Errorf("team %s: %w", t.Name, err)
		}
		teams[t.Name] = id
		res.count(created)
	}

	for _, e := range f.Equipment {
		created, err := l.equipment(e, users, categories, teams)
		if err != nil {
			return res, fmt.Errorf("equipment %s: %w", e.Name, err)
		}
		res.count(created)
	}

	return res, nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

func (l *Loader) user(u User) (uuid.UUID, bool, error) {
	existing, err := l.repos.Users.GetByEmail(u.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}
	created, err := l.svc.Users.Create(&service.CreateUserRequest{Name: u.Name, Email: u.Email, Password: u.Password})
	if err != nil {
		return uuid.Nil, false, err
	}
	l.log.WithField("email", u.Email).Info("Created user")
	return created.ID, true, nil
}

func (l *Loader) category(c Category) (uuid.UUID, bool, error) {
	existing, err := l.repos.Categories.GetByName(c.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}
	created, err := l.svc.Categories.Create(&service.CreateCategoryRequest{Name: c.Name, Color: c.Color, Note: c.Note})
	if err != nil {
		return uuid.Nil, false, err
	}
	l.log.WithField("category", c.Name).Info("Created category")
	return created.ID, true, nil
}

func (l *Loader) team(t Team, users map[string]uuid.UUID) (uuid.UUID, bool, error) {
	existing, err := l.repos.Teams.GetByName(t.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}

	members := make([]uuid.UUID, 0, len(t.Members))
	for _, email := range t.Members {
		id, err := l.userID(email, users)
		if err != nil {
			return uuid.Nil, false, err
		}
		members = append(members, id)
	}
	created, err := l.svc.Teams.Create(&service.CreateTeamRequest{Name: t.Name, Color: t.Color, MemberIDs: members})
	if err != nil {
		return uuid.Nil, false, err
	}
	l.log.WithFields(logrus.Fields{"team": t.Name, "members": len(members)}).Info("Created team")
	return created.ID, true, nil
}

func (l *Loader) equipment(e Equipment, users, categories, teams map[string]uuid.UUID) (bool, error) {
	if e.SerialNumber != "" {
		_, err := l.repos.Equipment.GetBySerialNumber(e.SerialNumber)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}

	teamID, ok := teams[e.Team]
	if !ok {
		team, err := l.repos.Teams.GetByName(e.Team)
		if err != nil {
			return false, fmt.Errorf("unknown team %q: %w", e.Team, err)
		}
		teamID = team.ID
	}

	req := &service.CreateEquipmentRequest{
		Name:       e.Name,
		TeamID:     teamID,
		Department: e.Department,
		Employee:   e.Employee,
		Location:   e.Location,
		Notes:      e.Notes,
		OwnerType:  models.OwnerTypeDepartment,
	}
	if e.Employee != "" {
		req.OwnerType = models.OwnerTypeEmployee
	}
	if e.SerialNumber != "" {
		serial := e.SerialNumber
		req.SerialNumber = &serial
	}
	if e.Category != "" {
		id, ok := categories[e.Category]
		if !ok {
			category, err := l.repos.Categories.GetByName(e.Category)
			if err != nil {
				return false, fmt.Errorf("unknown category %q: %w", e.Category, err)
			}
			id = category.ID
		}
		req.CategoryID = &id
	}
	if e.Technician != "" {
		id, err := l.userID(e.Technician, users)
		if err != nil {
			return false, err
		}
		req.TechnicianID = &id
	}

	var err error
	if req.PurchaseDate, err = parseDate("purchase_date", e.PurchaseDate); err != nil {
		return false, err
	}
	if req.WarrantyDate, err = parseDate("warranty_date", e.WarrantyDate); err != nil {
		return false, err
	}

	if _, err := l.svc.Equipment.Create(nil, req); err != nil {
		return false, err
	}
	l.log.WithField("equipment", e.Name).Info("Created equipment")
	return true, nil
}

func (l *Loader) userID(email string, users map[string]uuid.UUID) (uuid.UUID, error) {
	if id, ok := users[email]; ok {
		return id, nil
	}
	user, err := l.repos.Users.GetByEmail(email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unknown user %q: %w", email, err)
	}
	return user.ID, nil
}

func parseDate(field, raw string) (maintenance.Field[*time.Time], error) {
	if raw == "" {
		return maintenance.Field[*time.Time]{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return maintenance.Field[*time.Time]{}, fmt.Errorf("invalid %s %q: use YYYY-MM-DD", field, raw)
	}
	return maintenance.Set(&t), nil
}
