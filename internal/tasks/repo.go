package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const taskColumns = `
t.id, t.title, t.description, t.due_date, t.status,
t.project_id, p.name, t.user_id, t.created_at`

// buildFilter renders the filter as a WHERE clause with positional args.
// Absent fields add nothing; present fields are ANDed together.
func buildFilter(f Filter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != nil {
		add("t.status = $%d", *f.Status)
	}
	if f.DueBefore != nil {
		add("t.due_date <= $%d", *f.DueBefore)
	}
	if f.DueAfter != nil {
		add("t.due_date >= $%d", *f.DueAfter)
	}
	if f.ProjectID != nil {
		add("t.project_id = $%d", *f.ProjectID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "where " + strings.Join(conds, " and "), args
}

// List returns the requested page of the filtered task set, ordered by due
// date with id as the stable tie-break.
func (r *Repo) List(ctx context.Context, f Filter, page Page) ([]Task, error) {
	where, args := buildFilter(f)
	args = append(args, page.Size, page.Offset())

	q := fmt.Sprintf(`
select %s
from tasks t
join projects p on p.id = t.project_id
%s
order by t.due_date asc, t.id asc
limit $%d offset $%d;
`, taskColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0, page.Size)
	for rows.Next() {
		var t Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count computes the unsliced total over the same filter set as List.
func (r *Repo) Count(ctx context.Context, f Filter) (int, error) {
	where, args := buildFilter(f)

	q := fmt.Sprintf(`select count(*) from tasks t %s;`, where)

	var total int
	if err := r.db.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Task, error) {
	q := fmt.Sprintf(`
select %s
from tasks t
join projects p on p.id = t.project_id
where t.id = $1;
`, taskColumns)

	var t Task
	if err := scanTask(r.db.QueryRow(ctx, q, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Create(ctx context.Context, t *Task) (*Task, error) {
	const q = `
insert into tasks (title, description, due_date, status, project_id, user_id)
values ($1, $2, $3, $4, $5, $6)
returning id, created_at;
`
	created := *t
	err := r.db.QueryRow(ctx, q,
		t.Title, t.Description, t.DueDate, t.Status, t.ProjectID, t.OwnerID).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repo) Update(ctx context.Context, t *Task) error {
	const q = `
update tasks
set title = $2, description = $3, due_date = $4, status = $5, project_id = $6
where id = $1;
`
	ct, err := r.db.Exec(ctx, q,
		t.ID, t.Title, t.Description, t.DueDate, t.Status, t.ProjectID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	const q = `delete from tasks where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row, t *Task) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status,
		&t.ProjectID, &t.ProjectName, &t.OwnerID, &t.CreatedAt,
	)
}
