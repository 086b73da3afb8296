package customeruser

import (
	"errors"
	"time"

	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ usermanagement.UserStore = (*CustomerUserDBService)(nil)

func (dbService *CustomerUserDBService) CreateUser(user userTypes.User) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionCustomerUsers().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", usermanagement.ErrEmailTaken
		}
		return "", err
	}
	id := res.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

func (dbService *CustomerUserDBService) GetUserByEmail(email string) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user userTypes.User
	err := dbService.collectionCustomerUsers().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userTypes.User{}, usermanagement.ErrUserNotFound
		}
		return userTypes.User{}, err
	}
	return user, nil
}

func (dbService *CustomerUserDBService) GetUserByID(id string) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return userTypes.User{}, usermanagement.ErrUserNotFound
	}

	var user userTypes.User
	err = dbService.collectionCustomerUsers().FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userTypes.User{}, usermanagement.ErrUserNotFound
		}
		return userTypes.User{}, err
	}
	return user, nil
}

func (dbService *CustomerUserDBService) UpdateUserFields(id string, fields map[string]interface{}) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return userTypes.User{}, usermanagement.ErrUserNotFound
	}

	update := bson.M{}
	for key, value := range fields {
		update[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user userTypes.User
	err = dbService.collectionCustomerUsers().FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": update},
		opts,
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userTypes.User{}, usermanagement.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return userTypes.User{}, usermanagement.ErrEmailTaken
		}
		return userTypes.User{}, err
	}
	return user, nil
}

func (dbService *CustomerUserDBService) DeleteUser(id string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return usermanagement.ErrUserNotFound
	}

	res, err := dbService.collectionCustomerUsers().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return usermanagement.ErrUserNotFound
	}
	return nil
}

func (dbService *CustomerUserDBService) ListUsers(filter usermanagement.UserListFilter) (usermanagement.UserListPage, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := bson.M{}
	if filter.Search != "" {
		searchRegex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"firstName": searchRegex},
			bson.M{"lastName": searchRegex},
			bson.M{"email": searchRegex},
		}
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}

	total, err := dbService.collectionCustomerUsers().CountDocuments(ctx, query)
	if err != nil {
		return usermanagement.UserListPage{}, err
	}

	// an oversized page value must not overflow into a negative skip
	skip := total
	if page-1 <= total/limit {
		skip = (page - 1) * limit
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)
	if dbService.noCursorTimeout {
		opts = opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionCustomerUsers().Find(ctx, query, opts)
	if err != nil {
		return usermanagement.UserListPage{}, err
	}
	defer cursor.Close(ctx)

	users := []userTypes.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return usermanagement.UserListPage{}, err
	}

	return usermanagement.UserListPage{
		Users: users,
		Total: total,
		Page:  page,
		Pages: (total + limit - 1) / limit,
		Limit: limit,
	}, nil
}

func (dbService *CustomerUserDBService) GetUserStats() (usermanagement.UserStatsSummary, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionCustomerUsers()

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return usermanagement.UserStatsSummary{}, err
	}
	active, err := collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return usermanagement.UserStatsSummary{}, err
	}
	verified, err := collection.CountDocuments(ctx, bson.M{"emailVerified": true})
	if err != nil {
		return usermanagement.UserStatsSummary{}, err
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Unix()
	newThisMonth, err := collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": startOfMonth}})
	if err != nil {
		return usermanagement.UserStatsSummary{}, err
	}

	cursor, err := collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return usermanagement.UserStatsSummary{}, err
	}
	defer cursor.Close(ctx)

	var roleCounts []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &roleCounts); err != nil {
		return usermanagement.UserStatsSummary{}, err
	}

	summary := usermanagement.UserStatsSummary{
		TotalUsers:        total,
		ActiveUsers:       active,
		InactiveUsers:     total - active,
		VerifiedUsers:     verified,
		NewUsersThisMonth: newThisMonth,
		RoleCounts:        map[string]int64{},
	}
	for _, rc := range roleCounts {
		summary.RoleCounts[rc.Role] = rc.Count
	}
	return summary, nil
}
