package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kursownik/api/internal/core/domain"
)

const enrollmentsCollection = "user_courses"

const (
	enrollmentUserField   = "user_id"
	enrollmentCourseField = "course_id"
)

type manyDeleter interface {
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// deleteEnrollments drops every enrollment whose field (user_id or course_id)
// references id. Course and user deletion call it so no enrollment outlives
// either side.
func deleteEnrollments(ctx context.Context, coll manyDeleter, field, id string) (int64, error) {
	res, err := coll.DeleteMany(ctx, bson.M{field: id})
	if err != nil {
		return 0, fmt.Errorf("delete enrollments by %s: %w", field, err)
	}
	return res.DeletedCount, nil
}

type EnrollmentRepository struct {
	coll *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{coll: db.Collection(enrollmentsCollection)}
}

type mongoEnrollment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	CourseID       string             `bson:"course_id"`
	ActiveLessonID string             `bson:"active_lesson_id"`
	IsPremium      bool               `bson:"is_premium"`
}

func (m *mongoEnrollment) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:             m.ID.Hex(),
		UserID:         m.UserID,
		CourseID:       m.CourseID,
		ActiveLessonID: m.ActiveLessonID,
		IsPremium:      m.IsPremium,
	}
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoEnrollment
	if err := r.coll.FindOne(ctx, bson.M{enrollmentUserField: userID, enrollmentCourseField: courseID}).Decode(&m); err != nil {
		return nil, findErr(err, domain.ErrEnrollmentNotFound, "enrollment")
	}
	return m.toDomain(), nil
}

func (r *EnrollmentRepository) ListPremiumCourseIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{enrollmentUserField: userID, "is_premium": true},
		options.Find().SetProjection(bson.M{"course_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list premium courses: %w", err)
	}
	var docs []mongoEnrollment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.CourseID)
	}
	return ids, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoEnrollment{
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		ActiveLessonID: e.ActiveLessonID,
		IsPremium:      e.IsPremium,
	})
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *EnrollmentRepository) SetPremium(ctx context.Context, id string, premium bool) error {
	oid, err := objectID(id, domain.ErrEnrollmentNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"is_premium": premium}})
	if err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

// EnsureIndexes allows one enrollment per user and course.
func (r *EnrollmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
