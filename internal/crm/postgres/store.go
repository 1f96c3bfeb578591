// Package postgres implements the crm service interfaces on PostgreSQL.
//
// Every query is scoped by user_id; a record belonging to another user is
// indistinguishable from a missing one and surfaces as the corresponding
// not-found sentinel. The auth token is accepted per the service contract
// but unused here: this store is the system of record, not a remote proxy.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

// Store implements crm.OrganizationService, crm.PersonService, and
// crm.DealService on a pgx connection pool. Safe for concurrent use.
//
// Duplicate prevention is handled by the tools as a read-then-check
// pre-flight; the schema carries no unique constraints on names or emails,
// so two racing creates can both succeed.
type Store struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// New creates a Store.
func New(pool *pgxpool.Pool, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Services bundles the store behind the three service interfaces.
func (s *Store) Services() crm.Services {
	return crm.Services{
		Organizations: s,
		People:        s,
		Deals:         s,
	}
}

// validID reports whether id parses as a UUID. Malformed ids are treated
// as not-found rather than surfacing a Postgres syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const organizationColumns = `id, name, address, user_id, created_at, updated_at`

func scanOrganization(row pgx.Row) (crm.Organization, error) {
	var org crm.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Address, &org.UserID, &org.CreatedAt, &org.UpdatedAt)
	return org, err
}

func (s *Store) Organizations(ctx context.Context, userID, _ string) ([]crm.Organization, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []crm.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return orgs, nil
}

func (s *Store) Organization(ctx context.Context, userID, id, _ string) (crm.Organization, error) {
	if !validID(id) {
		return crm.Organization{}, crm.ErrOrganizationNotFound
	}

	org, err := scanOrganization(s.pool.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1 AND user_id = $2`,
		id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Organization{}, crm.ErrOrganizationNotFound
	}
	if err != nil {
		return crm.Organization{}, fmt.Errorf("getting organization %s: %w", id, err)
	}
	return org, nil
}

func (s *Store) CreateOrganization(ctx context.Context, userID string, input crm.OrganizationInput, _ string) (crm.Organization, error) {
	org, err := scanOrganization(s.pool.QueryRow(ctx,
		`INSERT INTO organizations (name, address, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+organizationColumns,
		input.Name, input.Address, userID))
	if err != nil {
		return crm.Organization{}, fmt.Errorf("creating organization: %w", err)
	}

	s.logger.Debug("organization created", "id", org.ID, "user_id", userID)
	return org, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, userID, id string, patch crm.OrganizationPatch, _ string) (crm.Organization, error) {
	if !validID(id) {
		return crm.Organization{}, crm.ErrOrganizationNotFound
	}

	set := newSetClause()
	set.add("name", patch.Name)
	set.add("address", patch.Address)

	org, err := scanOrganization(s.pool.QueryRow(ctx,
		`UPDATE organizations SET `+set.sql()+`
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+organizationColumns,
		set.args(id, userID)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Organization{}, crm.ErrOrganizationNotFound
	}
	if err != nil {
		return crm.Organization{}, fmt.Errorf("updating organization %s: %w", id, err)
	}
	return org, nil
}

const personColumns = `id, first_name, last_name, email, phone, notes, organization_id, user_id, created_at, updated_at`

func scanPerson(row pgx.Row) (crm.Person, error) {
	var (
		p     crm.Person
		orgID *string
	)
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Notes,
		&orgID, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	p.OrganizationID = deref(orgID)
	return p, err
}

func (s *Store) People(ctx context.Context, userID, _ string) ([]crm.Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+personColumns+` FROM people WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	defer rows.Close()

	var people []crm.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	return people, nil
}

func (s *Store) Person(ctx context.Context, userID, id, _ string) (crm.Person, error) {
	if !validID(id) {
		return crm.Person{}, crm.ErrPersonNotFound
	}

	p, err := scanPerson(s.pool.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = $1 AND user_id = $2`,
		id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Person{}, crm.ErrPersonNotFound
	}
	if err != nil {
		return crm.Person{}, fmt.Errorf("getting person %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) CreatePerson(ctx context.Context, userID string, input crm.PersonInput, _ string) (crm.Person, error) {
	p, err := scanPerson(s.pool.QueryRow(ctx,
		`INSERT INTO people (first_name, last_name, email, phone, notes, organization_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+personColumns,
		input.FirstName, input.LastName, input.Email, input.Phone, input.Notes,
		nullable(input.OrganizationID), userID))
	if err != nil {
		return crm.Person{}, fmt.Errorf("creating person: %w", err)
	}

	s.logger.Debug("person created", "id", p.ID, "user_id", userID)
	return p, nil
}

func (s *Store) UpdatePerson(ctx context.Context, userID, id string, patch crm.PersonPatch, _ string) (crm.Person, error) {
	if !validID(id) {
		return crm.Person{}, crm.ErrPersonNotFound
	}

	set := newSetClause()
	set.add("first_name", patch.FirstName)
	set.add("last_name", patch.LastName)
	set.add("email", patch.Email)
	set.add("phone", patch.Phone)
	set.add("notes", patch.Notes)
	set.addNullable("organization_id", patch.OrganizationID)

	p, err := scanPerson(s.pool.QueryRow(ctx,
		`UPDATE people SET `+set.sql()+`
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+personColumns,
		set.args(id, userID)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Person{}, crm.ErrPersonNotFound
	}
	if err != nil {
		return crm.Person{}, fmt.Errorf("updating person %s: %w", id, err)
	}
	return p, nil
}

const dealColumns = `id, name, amount, stage, organization_id, person_id, expected_close_date, user_id, created_at, updated_at`

func scanDeal(row pgx.Row) (crm.Deal, error) {
	var (
		d        crm.Deal
		orgID    *string
		personID *string
	)
	err := row.Scan(&d.ID, &d.Name, &d.Amount, &d.Stage, &orgID, &personID,
		&d.ExpectedCloseDate, &d.UserID, &d.CreatedAt, &d.UpdatedAt)
	d.OrganizationID = deref(orgID)
	d.PersonID = deref(personID)
	return d, err
}

func (s *Store) Deals(ctx context.Context, userID, _ string) ([]crm.Deal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var deals []crm.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	return deals, nil
}

func (s *Store) Deal(ctx context.Context, userID, id, _ string) (crm.Deal, error) {
	if !validID(id) {
		return crm.Deal{}, crm.ErrDealNotFound
	}

	d, err := scanDeal(s.pool.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1 AND user_id = $2`,
		id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Deal{}, crm.ErrDealNotFound
	}
	if err != nil {
		return crm.Deal{}, fmt.Errorf("getting deal %s: %w", id, err)
	}
	return d, nil
}

func (s *Store) CreateDeal(ctx context.Context, userID string, input crm.DealInput, _ string) (crm.Deal, error) {
	d, err := scanDeal(s.pool.QueryRow(ctx,
		`INSERT INTO deals (name, amount, stage, organization_id, person_id, expected_close_date, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+dealColumns,
		input.Name, input.Amount, input.Stage,
		nullable(input.OrganizationID), nullable(input.PersonID),
		input.ExpectedCloseDate, userID))
	if err != nil {
		return crm.Deal{}, fmt.Errorf("creating deal: %w", err)
	}

	s.logger.Debug("deal created", "id", d.ID, "amount", d.Amount, "user_id", userID)
	return d, nil
}

func (s *Store) UpdateDeal(ctx context.Context, userID, id string, patch crm.DealPatch, _ string) (crm.Deal, error) {
	if !validID(id) {
		return crm.Deal{}, crm.ErrDealNotFound
	}

	set := newSetClause()
	set.add("name", patch.Name)
	set.addFloat("amount", patch.Amount)
	set.add("stage", patch.Stage)
	set.addNullable("organization_id", patch.OrganizationID)
	set.addNullable("person_id", patch.PersonID)
	set.add("expected_close_date", patch.ExpectedCloseDate)

	d, err := scanDeal(s.pool.QueryRow(ctx,
		`UPDATE deals SET `+set.sql()+`
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+dealColumns,
		set.args(id, userID)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return crm.Deal{}, crm.ErrDealNotFound
	}
	if err != nil {
		return crm.Deal{}, fmt.Errorf("updating deal %s: %w", id, err)
	}
	return d, nil
}

// setClause accumulates SET assignments for a dynamic UPDATE. Placeholders
// start at $3 because $1/$2 are reserved for the id and user_id of the
// WHERE clause; updated_at is always refreshed.
type setClause struct {
	assignments []string
	values      []any
}

func newSetClause() *setClause {
	return &setClause{assignments: []string{"updated_at = now()"}}
}

func (c *setClause) add(column string, value *string) {
	if value == nil {
		return
	}
	c.values = append(c.values, *value)
	c.assignments = append(c.assignments, fmt.Sprintf("%s = $%d", column, len(c.values)+2))
}

// addNullable treats an explicit empty string as clearing the column.
func (c *setClause) addNullable(column string, value *string) {
	if value == nil {
		return
	}
	c.values = append(c.values, nullable(*value))
	c.assignments = append(c.assignments, fmt.Sprintf("%s = $%d", column, len(c.values)+2))
}

func (c *setClause) addFloat(column string, value *float64) {
	if value == nil {
		return
	}
	c.values = append(c.values, *value)
	c.assignments = append(c.assignments, fmt.Sprintf("%s = $%d", column, len(c.values)+2))
}

func (c *setClause) sql() string {
	return strings.Join(c.assignments, ", ")
}

func (c *setClause) args(id, userID string) []any {
	return append([]any{id, userID}, c.values...)
}
