package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	database "taskapp/internal/adapter/database/mongo"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const entity = "task"

type TaskRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *database.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

// observe bounds the call by the configured store timeout and records it.
func (tr *TaskRepository) observe(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, entity, map[string]interface{}{
		"db.system":             "mongodb",
		"db.mongodb.collection": tr.db.Tasks.Name(),
	})

	var cancel context.CancelFunc = func() {}

	if tr.db.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, tr.db.Timeout)
	}

	start := time.Now()

	return ctx, func(err error) {
		cancel()
		tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), err)
		span.End()
	}
}

// FilterDocument builds the list query. The search term is matched literally.
func FilterDocument(filter port.TaskFilter) bson.M {
	query := bson.M{}

	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}

		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return query
}

func DuplicateFilter(title string, status domain.TaskStatus, excludeID primitive.ObjectID) bson.M {
	query := bson.M{
		"title":  domain.NormalizeTitle(title),
		"status": status,
	}

	if !excludeID.IsZero() {
		query["_id"] = bson.M{"$ne": excludeID}
	}

	return query
}

// UpdateDocument turns changes into $set and $unset stages.
func UpdateDocument(changes domain.TaskChanges) bson.M {
	set := bson.M{"updatedAt": changes.UpdatedAt}
	unset := bson.M{}

	if changes.Title != nil {
		set["title"] = *changes.Title
	}

	if changes.Description != nil {
		if *changes.Description == "" {
			unset["description"] = ""
		} else {
			set["description"] = *changes.Description
		}
	}

	if changes.ClearDeadline {
		set["deadline"] = nil
	} else if changes.Deadline != nil {
		set["deadline"] = *changes.Deadline
	}

	if changes.Status != nil {
		set["status"] = *changes.Status
	}

	update := bson.M{"$set": set}

	if len(unset) > 0 {
		update["$unset"] = unset
	}

	return update
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case domain.KindOf(err) != domain.KindInternal:
		return err
	default:
		return domain.NewInternalError("task store failure", err)
	}
}

func (tr *TaskRepository) FindAll(ctx context.Context, filter port.TaskFilter) (tasks []domain.Task, err error) {
	ctx, done := tr.observe(ctx, "find_all")
	defer func() { done(err) }()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := tr.db.Tasks.Find(ctx, FilterDocument(filter), opts)

	if err != nil {
		return nil, translate(err)
	}

	tasks = make([]domain.Task, 0)

	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, translate(err)
	}

	return tasks, nil
}

func (tr *TaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (task domain.Task, err error) {
	ctx, done := tr.observe(ctx, "find_by_id")
	defer func() { done(err) }()

	err = tr.db.Tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task)

	if err != nil {
		return domain.Task{}, translate(err)
	}

	return task, nil
}

func (tr *TaskRepository) ExistsByTitleAndStatus(ctx context.Context, title string, status domain.TaskStatus, excludeID primitive.ObjectID) (exists bool, err error) {
	ctx, done := tr.observe(ctx, "exists_by_title_and_status")
	defer func() { done(err) }()

	count, err := tr.db.Tasks.CountDocuments(ctx, DuplicateFilter(title, status, excludeID), options.Count().SetLimit(1))

	if err != nil {
		return false, translate(err)
	}

	return count > 0, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (created domain.Task, err error) {
	ctx, done := tr.observe(ctx, "create")
	defer func() { done(err) }()

	task.Normalize()

	if task.CreatedAt.IsZero() {
		task.Touch(time.Now().UTC().Truncate(time.Millisecond))
	}

	if err = task.Validate(); err != nil {
		return domain.Task{}, err
	}

	task.ID = primitive.NewObjectID()

	if _, err = tr.db.Tasks.InsertOne(ctx, task); err != nil {
		return domain.Task{}, translate(err)
	}

	return task, nil
}

func (tr *TaskRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes domain.TaskChanges) (updated domain.Task, err error) {
	ctx, done := tr.observe(ctx, "update_by_id")
	defer func() { done(err) }()

	changes.Normalize()

	if err = changes.Validate(); err != nil {
		return domain.Task{}, err
	}

	if changes.UpdatedAt.IsZero() {
		changes.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = tr.db.Tasks.FindOneAndUpdate(ctx, bson.M{"_id": id}, UpdateDocument(changes), opts).Decode(&updated)

	if err != nil {
		return domain.Task{}, translate(err)
	}

	return updated, nil
}

func (tr *TaskRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (err error) {
	ctx, done := tr.observe(ctx, "delete_by_id")
	defer func() { done(err) }()

	result, err := tr.db.Tasks.DeleteOne(ctx, bson.M{"_id": id})

	if err != nil {
		return translate(err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	return nil
}
