package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	TaskCount   int       `json:"taskCount"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, ownerID int64, name string, description *string) (*Project, error) {
	const q = `
insert into projects (name, description, user_id)
values ($1, $2, $3)
returning id, name, description, user_id, created_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, name, description, ownerID).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Project, error) {
	const q = `
select p.id, p.name, p.description, p.user_id, p.created_at,
       count(t.id) as task_count
from projects p
left join tasks t on t.project_id = p.id
where p.id = $1
group by p.id;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.TaskCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select p.id, p.name, p.description, p.user_id, p.created_at,
       count(t.id) as task_count
from projects p
left join tasks t on t.project_id = p.id
group by p.id
order by p.created_at desc, p.id desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.TaskCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, name string, description *string) (*Project, error) {
	const q = `
update projects
set name = $2, description = $3
where id = $1
returning id, name, description, user_id, created_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id, name, description).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the project and, through the schema's cascade, its tasks.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	const q = `delete from projects where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
