package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/pkg/database"
)

const planColumns = `id, user_email, program_name, university_name, degree, created_at, updated_at`

const courseColumns = `plan_id, position, year, semester, code, course_name, credits, prerequisite, corequisite, schedule_day, schedule_time`

// programCourseRow is one persisted plan course.
type programCourseRow struct {
	PlanID       string   `db:"plan_id"`
	Position     int      `db:"position"`
	Year         string   `db:"year"`
	Semester     string   `db:"semester"`
	Code         string   `db:"code"`
	CourseName   string   `db:"course_name"`
	Credits      *float64 `db:"credits"`
	Prerequisite string   `db:"prerequisite"`
	Corequisite  string   `db:"corequisite"`
	ScheduleDay  string   `db:"schedule_day"`
	ScheduleTime string   `db:"schedule_time"`
}

// PlanRepository persists education plans and their courses in Postgres.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs the repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Upsert stores plan, replacing any plan saved for the same owner, university, program and degree.
// plan.ID, CreatedAt and UpdatedAt are filled from the stored row.
func (r *PlanRepository) Upsert(ctx context.Context, plan *models.EducationPlan) error {
	const upsertPlan = `INSERT INTO education_plans (id, user_email, program_name, university_name, degree, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (user_email, university_name, program_name, degree)
DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`
	const clearCourses = `DELETE FROM program_courses WHERE plan_id = $1`
	const insertCourse = `INSERT INTO program_courses (` + courseColumns + `)
VALUES (:plan_id, :position, :year, :semester, :code, :course_name, :credits, :prerequisite, :corequisite, :schedule_day, :schedule_time)`

	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var stored struct {
			ID        string    `db:"id"`
			CreatedAt time.Time `db:"created_at"`
			UpdatedAt time.Time `db:"updated_at"`
		}
		row := tx.QueryRowxContext(ctx, upsertPlan, uuid.NewString(), plan.UserEmail, plan.Program, plan.University, plan.Degree, now)
		if err := row.StructScan(&stored); err != nil {
			return fmt.Errorf("upsert education plan: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearCourses, stored.ID); err != nil {
			return fmt.Errorf("clear plan courses: %w", err)
		}
		for i, course := range plan.Courses {
			if _, err := tx.NamedExecContext(ctx, insertCourse, toCourseRow(stored.ID, i, course)); err != nil {
				return fmt.Errorf("insert plan course %s: %w", course.Code, err)
			}
		}
		plan.ID = stored.ID
		plan.CreatedAt = stored.CreatedAt
		plan.UpdatedAt = stored.UpdatedAt
		plan.Store = models.PlanStoreRemote
		return nil
	})
}

// ListByEmail returns every plan owned by email, most recently updated first.
func (r *PlanRepository) ListByEmail(ctx context.Context, email string) ([]models.EducationPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM education_plans WHERE user_email = $1 ORDER BY updated_at DESC`
	var plans []models.EducationPlan
	if err := r.db.SelectContext(ctx, &plans, query, email); err != nil {
		return nil, fmt.Errorf("list education plans: %w", err)
	}
	if len(plans) == 0 {
		return plans, nil
	}

	ids := make([]string, len(plans))
	for i := range plans {
		ids[i] = plans[i].ID
	}
	courses, err := r.coursesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		attachCourses(&plans[i], courses[plans[i].ID])
	}
	return plans, nil
}

// FindByProgram returns the plan stored under key or sql.ErrNoRows.
func (r *PlanRepository) FindByProgram(ctx context.Context, key models.PlanKey) (*models.EducationPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM education_plans
WHERE user_email = $1 AND university_name = $2 AND program_name = $3 AND degree = $4`
	var plan models.EducationPlan
	if err := r.db.GetContext(ctx, &plan, query, key.Email, key.University, key.Program, key.Degree); err != nil {
		return nil, err
	}
	courses, err := r.coursesFor(ctx, []string{plan.ID})
	if err != nil {
		return nil, err
	}
	attachCourses(&plan, courses[plan.ID])
	return &plan, nil
}

// Delete removes the plan stored under key; its courses cascade.
func (r *PlanRepository) Delete(ctx context.Context, key models.PlanKey) error {
	const query = `DELETE FROM education_plans
WHERE user_email = $1 AND university_name = $2 AND program_name = $3 AND degree = $4`
	res, err := r.db.ExecContext(ctx, query, key.Email, key.University, key.Program, key.Degree)
	if err != nil {
		return fmt.Errorf("delete education plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check education plan delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PlanRepository) coursesFor(ctx context.Context, planIDs []string) (map[string][]models.PlanCourse, error) {
	const query = `SELECT ` + courseColumns + ` FROM program_courses WHERE plan_id = ANY($1) ORDER BY plan_id, position`
	var rows []programCourseRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(planIDs)); err != nil {
		return nil, fmt.Errorf("list plan courses: %w", err)
	}
	result := make(map[string][]models.PlanCourse, len(planIDs))
	for _, row := range rows {
		result[row.PlanID] = append(result[row.PlanID], row.toPlanCourse())
	}
	return result, nil
}

func attachCourses(plan *models.EducationPlan, courses []models.PlanCourse) {
	for i := range courses {
		courses[i].Program = plan.Program
		courses[i].University = plan.University
	}
	plan.Courses = courses
	plan.Store = models.PlanStoreRemote
}

func toCourseRow(planID string, position int, course models.PlanCourse) programCourseRow {
	row := programCourseRow{
		PlanID:       planID,
		Position:     position,
		Year:         course.Year,
		Semester:     course.Semester,
		Code:         course.Code,
		CourseName:   course.CourseName,
		Credits:      course.Credits,
		Prerequisite: course.Prerequisite,
		Corequisite:  course.Corequisite,
	}
	if course.Schedule != nil {
		row.ScheduleDay = course.Schedule.Day
		row.ScheduleTime = course.Schedule.Time
	}
	return row
}

func (row programCourseRow) toPlanCourse() models.PlanCourse {
	course := models.PlanCourse{
		Year:         row.Year,
		Semester:     row.Semester,
		Code:         row.Code,
		CourseName:   row.CourseName,
		Credits:      row.Credits,
		Prerequisite: row.Prerequisite,
		Corequisite:  row.Corequisite,
	}
	if row.ScheduleDay != "" || row.ScheduleTime != "" {
		course.Schedule = &models.Schedule{Day: row.ScheduleDay, Time: row.ScheduleTime}
	}
	return course
}
