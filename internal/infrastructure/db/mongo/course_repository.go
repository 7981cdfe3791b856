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

const (
	coursesCollection  = "courses"
	chaptersCollection = "chapters"
	lessonsCollection  = "lessons"
)

type mongoCourse struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	ImageSrc    string             `bson:"image_src"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m *mongoCourse) toDomain() *domain.Course {
	return &domain.Course{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Description: m.Description,
		ImageSrc:    m.ImageSrc,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type mongoChapter struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CourseID     string             `bson:"course_id"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	ChapterOrder int                `bson:"chapter_order"`
}

func (m *mongoChapter) toDomain() *domain.Chapter {
	return &domain.Chapter{
		ID:           m.ID.Hex(),
		CourseID:     m.CourseID,
		Name:         m.Name,
		Description:  m.Description,
		ChapterOrder: m.ChapterOrder,
	}
}

type mongoLesson struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ChapterID   string             `bson:"chapter_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	LessonOrder int                `bson:"lesson_order"`
}

func (m *mongoLesson) toDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:          m.ID.Hex(),
		ChapterID:   m.ChapterID,
		Name:        m.Name,
		Description: m.Description,
		LessonOrder: m.LessonOrder,
	}
}

// CourseRepository stores courses. Deleting a course also removes its
// chapters, their lessons and every enrollment in the course.
type CourseRepository struct {
	courses     *mongo.Collection
	chapters    *mongo.Collection
	lessons     *mongo.Collection
	enrollments *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		courses:     db.Collection(coursesCollection),
		chapters:    db.Collection(chaptersCollection),
		lessons:     db.Collection(lessonsCollection),
		enrollments: db.Collection(enrollmentsCollection),
	}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.courses.InsertOne(ctx, mongoCourse{
		Name:        c.Name,
		Description: c.Description,
		ImageSrc:    c.ImageSrc,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := objectID(id, domain.ErrCourseNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoCourse
	if err := r.courses.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return nil, findErr(err, domain.ErrCourseNotFound, "course")
	}
	return m.toDomain(), nil
}

func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.courses.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var docs []mongoCourse
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	out := make([]*domain.Course, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	oid, err := objectID(c.ID, domain.ErrCourseNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.courses.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":        c.Name,
		"description": c.Description,
		"image_src":   c.ImageSrc,
		"updated_at":  c.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrCourseNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	chapterIDs, err := r.chapterIDs(ctx, id)
	if err != nil {
		return err
	}
	if len(chapterIDs) > 0 {
		if _, err := r.lessons.DeleteMany(ctx, bson.M{"chapter_id": bson.M{"$in": chapterIDs}}); err != nil {
			return fmt.Errorf("delete course lessons: %w", err)
		}
		if _, err := r.chapters.DeleteMany(ctx, bson.M{"course_id": id}); err != nil {
			return fmt.Errorf("delete course chapters: %w", err)
		}
	}

	res, err := r.courses.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	_, err = deleteEnrollments(ctx, r.enrollments, enrollmentCourseField, id)
	return err
}

func (r *CourseRepository) chapterIDs(ctx context.Context, courseID string) ([]string, error) {
	cur, err := r.chapters.Find(ctx, bson.M{"course_id": courseID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list course chapters: %w", err)
	}
	var docs []mongoChapter
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chapters: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}

// ChapterRepository stores chapters. Deleting a chapter also removes its lessons.
type ChapterRepository struct {
	chapters *mongo.Collection
	lessons  *mongo.Collection
}

func NewChapterRepository(db *mongo.Database) *ChapterRepository {
	return &ChapterRepository{
		chapters: db.Collection(chaptersCollection),
		lessons:  db.Collection(lessonsCollection),
	}
}

var chapterOrder = bson.D{{Key: "chapter_order", Value: 1}, {Key: "_id", Value: 1}}

func (r *ChapterRepository) Create(ctx context.Context, ch *domain.Chapter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.chapters.InsertOne(ctx, mongoChapter{
		CourseID:     ch.CourseID,
		Name:         ch.Name,
		Description:  ch.Description,
		ChapterOrder: ch.ChapterOrder,
	})
	if err != nil {
		return fmt.Errorf("insert chapter: %w", err)
	}
	ch.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ChapterRepository) FindByID(ctx context.Context, id string) (*domain.Chapter, error) {
	oid, err := objectID(id, domain.ErrChapterNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoChapter
	if err := r.chapters.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return nil, findErr(err, domain.ErrChapterNotFound, "chapter")
	}
	return m.toDomain(), nil
}

func (r *ChapterRepository) List(ctx context.Context) ([]*domain.Chapter, error) {
	return r.find(ctx, bson.M{})
}

func (r *ChapterRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.Chapter, error) {
	return r.find(ctx, bson.M{"course_id": courseID})
}

func (r *ChapterRepository) find(ctx context.Context, filter bson.M) ([]*domain.Chapter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.chapters.Find(ctx, filter, options.Find().SetSort(chapterOrder))
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	var docs []mongoChapter
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chapters: %w", err)
	}
	out := make([]*domain.Chapter, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ChapterRepository) MaxOrder(ctx context.Context, courseID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoChapter
	err := r.chapters.FindOne(ctx, bson.M{"course_id": courseID},
		options.FindOne().SetSort(bson.D{{Key: "chapter_order", Value: -1}}),
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("max chapter order: %w", err)
	}
	return m.ChapterOrder, nil
}

func (r *ChapterRepository) Update(ctx context.Context, ch *domain.Chapter) error {
	oid, err := objectID(ch.ID, domain.ErrChapterNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.chapters.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"course_id":     ch.CourseID,
		"name":          ch.Name,
		"description":   ch.Description,
		"chapter_order": ch.ChapterOrder,
	}})
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrChapterNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.lessons.DeleteMany(ctx, bson.M{"chapter_id": id}); err != nil {
		return fmt.Errorf("delete chapter lessons: %w", err)
	}
	res, err := r.chapters.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

// EnsureIndexes creates the lookup indexes for chapters and lessons.
func (r *ChapterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.chapters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "chapter_order", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := r.lessons.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chapter_id", Value: 1}, {Key: "lesson_order", Value: 1}},
	})
	return err
}

type LessonRepository struct {
	lessons *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{lessons: db.Collection(lessonsCollection)}
}

var lessonOrder = bson.D{{Key: "lesson_order", Value: 1}, {Key: "_id", Value: 1}}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.lessons.InsertOne(ctx, mongoLesson{
		ChapterID:   l.ChapterID,
		Name:        l.Name,
		Description: l.Description,
		LessonOrder: l.LessonOrder,
	})
	if err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	l.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*domain.Lesson, error) {
	oid, err := objectID(id, domain.ErrLessonNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoLesson
	if err := r.lessons.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return nil, findErr(err, domain.ErrLessonNotFound, "lesson")
	}
	return m.toDomain(), nil
}

func (r *LessonRepository) List(ctx context.Context) ([]*domain.Lesson, error) {
	return r.find(ctx, bson.M{})
}

func (r *LessonRepository) ListByChapter(ctx context.Context, chapterID string) ([]*domain.Lesson, error) {
	return r.find(ctx, bson.M{"chapter_id": chapterID})
}

func (r *LessonRepository) find(ctx context.Context, filter bson.M) ([]*domain.Lesson, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.lessons.Find(ctx, filter, options.Find().SetSort(lessonOrder))
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	var docs []mongoLesson
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	out := make([]*domain.Lesson, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *LessonRepository) MaxOrder(ctx context.Context, chapterID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoLesson
	err := r.lessons.FindOne(ctx, bson.M{"chapter_id": chapterID},
		options.FindOne().SetSort(bson.D{{Key: "lesson_order", Value: -1}}),
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("max lesson order: %w", err)
	}
	return m.LessonOrder, nil
}

func (r *LessonRepository) Update(ctx context.Context, l *domain.Lesson) error {
	oid, err := objectID(l.ID, domain.ErrLessonNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.lessons.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"chapter_id":   l.ChapterID,
		"name":         l.Name,
		"description":  l.Description,
		"lesson_order": l.LessonOrder,
	}})
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrLessonNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.lessons.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}
