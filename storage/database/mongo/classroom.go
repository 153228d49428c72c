package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hussainrokeriya/champweb-backend/core/classroom"
)

const (
	classroomsCollection = "classrooms"
	postsCollection      = "posts"
	joinsCollection      = "classroomjoins"
)

type (
	// classroomDoc is the MongoDB representation of classroom.Classroom.
	// Reference fields (owner, post IDs) are stored as hex strings; only _id
	// is a native ObjectID.
	classroomDoc struct {
		ID          primitive.ObjectID `bson:"_id,omitempty"`
		Name        string             `bson:"name"`
		Description string             `bson:"description,omitempty"`
		Owner       string             `bson:"owner"`
		Students    []string           `bson:"students"`
		Posts       []string           `bson:"posts"`
		CreatedAt   time.Time          `bson:"createdAt"`
		UpdatedAt   time.Time          `bson:"updatedAt"`
	}

	postDoc struct {
		ID          primitive.ObjectID `bson:"_id,omitempty"`
		Title       string             `bson:"title"`
		Description string             `bson:"description,omitempty"`
		ClassroomID string             `bson:"classId"`
		CreatedBy   string             `bson:"createdBy"`
		CreatedAt   time.Time          `bson:"createdAt"`
	}

	joinRequestDoc struct {
		ID           primitive.ObjectID `bson:"_id,omitempty"`
		ClassroomID  string             `bson:"classroomId"`
		StudentEmail string             `bson:"studentEmail"`
		Code         int                `bson:"code"`
		OwnerEmail   string             `bson:"classOwnerEmail"`
		CreatedAt    time.Time          `bson:"createdAt"`
	}
)

func newClassroomDoc(room classroom.Classroom) classroomDoc {
	return classroomDoc{
		Name:        room.Name,
		Description: room.Description,
		Owner:       room.Owner,
		Students:    room.Students,
		Posts:       room.Posts,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func (doc classroomDoc) toClassroom() classroom.Classroom {
	room := classroom.Classroom{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Owner:       doc.Owner,
		Students:    doc.Students,
		Posts:       doc.Posts,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if room.Students == nil {
		room.Students = []string{}
	}
	if room.Posts == nil {
		room.Posts = []string{}
	}
	return room
}

func newPostDoc(post classroom.Post) postDoc {
	return postDoc{
		Title:       post.Title,
		Description: post.Description,
		ClassroomID: post.ClassroomID,
		CreatedBy:   post.CreatedBy,
		CreatedAt:   post.CreatedAt,
	}
}

func (doc postDoc) toPost() classroom.Post {
	return classroom.Post{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		ClassroomID: doc.ClassroomID,
		CreatedBy:   doc.CreatedBy,
		CreatedAt:   doc.CreatedAt,
	}
}

func newJoinRequestDoc(req classroom.JoinRequest) joinRequestDoc {
	return joinRequestDoc{
		ClassroomID:  req.ClassroomID,
		StudentEmail: req.StudentEmail,
		Code:         req.Code,
		OwnerEmail:   req.OwnerEmail,
		CreatedAt:    req.CreatedAt,
	}
}

func (doc joinRequestDoc) toJoinRequest() classroom.JoinRequest {
	return classroom.JoinRequest{
		ID:           doc.ID.Hex(),
		ClassroomID:  doc.ClassroomID,
		StudentEmail: doc.StudentEmail,
		Code:         doc.Code,
		OwnerEmail:   doc.OwnerEmail,
		CreatedAt:    doc.CreatedAt,
	}
}

type classroomRepository struct {
	rooms *mongo.Collection
	posts *mongo.Collection
	joins *mongo.Collection
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(db *mongo.Database) classroom.Repository {
	return &classroomRepository{
		rooms: db.Collection(classroomsCollection),
		posts: db.Collection(postsCollection),
		joins: db.Collection(joinsCollection),
	}
}

func (repo *classroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	doc := newClassroomDoc(room)
	res, err := repo.rooms.InsertOne(ctx, doc)
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "inserting classroom")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toClassroom(), nil
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	var doc classroomDoc
	if err = repo.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return classroom.Classroom{}, classroom.ErrNotFound
		}
		return classroom.Classroom{}, errors.Wrap(err, "finding classroom")
	}
	return doc.toClassroom(), nil
}

func (repo *classroomRepository) FilterClassroomsByOwner(ctx context.Context, ownerID string) ([]classroom.Classroom, error) {
	return repo.filterClassrooms(ctx, bson.M{"owner": ownerID})
}

func (repo *classroomRepository) FilterClassroomsByStudent(ctx context.Context, email string) ([]classroom.Classroom, error) {
	return repo.filterClassrooms(ctx, bson.M{"students": email})
}

func (repo *classroomRepository) SearchClassroomsByName(ctx context.Context, term string) ([]classroom.Classroom, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
	return repo.filterClassrooms(ctx, filter)
}

func (repo *classroomRepository) filterClassrooms(ctx context.Context, filter bson.M) ([]classroom.Classroom, error) {
	cur, err := repo.rooms.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "finding classrooms")
	}
	var docs []classroomDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding classrooms")
	}
	rooms := make([]classroom.Classroom, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, doc.toClassroom())
	}
	return rooms, nil
}

func (repo *classroomRepository) AppendClassroomStudent(ctx context.Context, id, email string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return classroom.ErrNotFound
	}
	update := bson.M{
		"$addToSet": bson.M{"students": email},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := repo.rooms.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrap(err, "appending classroom student")
	}
	if res.MatchedCount == 0 {
		return classroom.ErrNotFound
	}
	return nil
}

func (repo *classroomRepository) CreatePost(ctx context.Context, post classroom.Post) (classroom.Post, error) {
	doc := newPostDoc(post)
	res, err := repo.posts.InsertOne(ctx, doc)
	if err != nil {
		return classroom.Post{}, errors.Wrap(err, "inserting post")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toPost(), nil
}

func (repo *classroomRepository) AppendClassroomPost(ctx context.Context, classroomID, postID string) error {
	oid, err := primitive.ObjectIDFromHex(classroomID)
	if err != nil {
		return classroom.ErrNotFound
	}
	update := bson.M{
		"$push": bson.M{"posts": postID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := repo.rooms.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrap(err, "appending classroom post")
	}
	if res.MatchedCount == 0 {
		return classroom.ErrNotFound
	}
	return nil
}

func (repo *classroomRepository) GetPostsByClassroom(ctx context.Context, classroomID string) ([]classroom.Post, error) {
	cur, err := repo.posts.Find(ctx, bson.M{"classId": classroomID})
	if err != nil {
		return nil, errors.Wrap(err, "finding posts")
	}
	var docs []postDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding posts")
	}
	posts := make([]classroom.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, doc.toPost())
	}
	return posts, nil
}

func (repo *classroomRepository) CreateJoinRequest(ctx context.Context, req classroom.JoinRequest) (classroom.JoinRequest, error) {
	doc := newJoinRequestDoc(req)
	res, err := repo.joins.InsertOne(ctx, doc)
	if err != nil {
		return classroom.JoinRequest{}, errors.Wrap(err, "inserting join request")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toJoinRequest(), nil
}

func (repo *classroomRepository) GetJoinRequest(ctx context.Context, classroomID, studentEmail string, code int) (classroom.JoinRequest, error) {
	filter := bson.M{
		"classroomId":  classroomID,
		"studentEmail": studentEmail,
		"code":         code,
	}
	var doc joinRequestDoc
	if err := repo.joins.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return classroom.JoinRequest{}, classroom.ErrJoinRequestNotFound
		}
		return classroom.JoinRequest{}, errors.Wrap(err, "finding join request")
	}
	return doc.toJoinRequest(), nil
}

func (repo *classroomRepository) DeleteJoinRequest(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return classroom.ErrJoinRequestNotFound
	}
	if _, err = repo.joins.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "deleting join request")
	}
	return nil
}
