package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/marouan1337/oussaaaa/models"
	"github.com/marouan1337/oussaaaa/storage"
	"github.com/marouan1337/oussaaaa/utils"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reqCtx := ctx.Request().Context()
	email := strings.ToLower(userInput.Email)

	var existingUser models.User
	findErr := storage.Users.FindOne(reqCtx, bson.M{"email": email}).Decode(&existingUser)
	if findErr == nil {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}
	if !errors.Is(findErr, mongo.ErrNoDocuments) {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := userInput.Role
	if role == "" {
		role = models.RoleManager
	}
	active := true
	now := time.Now().UTC()

	newUser := models.User{
		Email:     email,
		Password:  hashedPassword,
		Name:      userInput.Name,
		Role:      role,
		Active:    &active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, insertErr := storage.Users.InsertOne(reqCtx, newUser)
	if insertErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	newUser.ID = res.InsertedID.(primitive.ObjectID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(newUser)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reqCtx := ctx.Request().Context()
	errorMsg := "Invalid credentials."

	var existingUser models.User
	findErr := storage.Users.FindOne(reqCtx, bson.M{"email": strings.ToLower(userInput.Email)}).Decode(&existingUser)
	if errors.Is(findErr, mongo.ErrNoDocuments) {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}
	if findErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	now := time.Now().UTC()
	storage.Users.UpdateByID(reqCtx, existingUser.ID, bson.M{
		"$set": bson.M{"lastLogin": now, "updatedAt": now},
	})

	token, tokenErr := utils.CreateSessionToken(existingUser.ID.Hex(), existingUser.Email, existingUser.Role)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.SetSessionCookie(ctx, token)

	ctx.JSON(iris.Map{
		"user": iris.Map{
			"id":    existingUser.ID.Hex(),
			"email": existingUser.Email,
			"name":  existingUser.Name,
			"role":  existingUser.Role,
		},
	})
}

func Logout(ctx iris.Context) {
	utils.RevokeSessionToken(ctx)
	utils.ClearSessionCookie(ctx)
	ctx.JSON(iris.Map{"success": true})
}

// CurrentUser returns the settings-form view of the session user; the
// WhatsApp number comes back without its country code.
func CurrentUser(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.SessionToken)

	userID, parseErr := primitive.ObjectIDFromHex(claims.ID)
	if parseErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Session Error", "Invalid session.", ctx)
		return
	}

	var user models.User
	findErr := storage.Users.FindOne(ctx.Request().Context(), bson.M{"_id": userID}).Decode(&user)
	if errors.Is(findErr, mongo.ErrNoDocuments) {
		utils.CreateNotFound(ctx)
		return
	}
	if findErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"name":           user.Name,
		"email":          user.Email,
		"whatsappNumber": utils.LocalWhatsappNumber(user.WhatsappNumber),
	})
}

func UpdateSettings(ctx iris.Context) {
	var input UpdateSettingsInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.SessionToken)
	userID, parseErr := primitive.ObjectIDFromHex(claims.ID)
	if parseErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Session Error", "Invalid session.", ctx)
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}

	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Password != "" {
		hashedPassword, hashErr := hashAndSaltPassword(input.Password)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		set["password"] = hashedPassword
	}
	if input.WhatsappNumber != nil {
		number := *input.WhatsappNumber
		if number != "" && !utils.ValidateWhatsappNumber(number) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Invalid WhatsApp number format. It must be 9 digits.", ctx)
			return
		}
		if number == "" {
			set["whatsappNumber"] = ""
		} else {
			set["whatsappNumber"] = utils.NormalizeWhatsappNumber(number)
		}
	}

	result, updateErr := storage.Users.UpdateByID(ctx.Request().Context(), userID, bson.M{"$set": set})
	if updateErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.MatchedCount == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Settings updated successfully"})
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Name     string `json:"name" validate:"required,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateSettingsInput struct {
	Name           string  `json:"name" validate:"omitempty,max=128"`
	Password       string  `json:"password" validate:"omitempty,min=8,max=256"`
	WhatsappNumber *string `json:"whatsappNumber"`
}
