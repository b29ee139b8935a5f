package routes

import (
	"log"

	"github.com/kataras/iris/v12"

	"github.com/marouan1337/oussaaaa/storage"
	"github.com/marouan1337/oussaaaa/utils"
)

type uploadInput struct {
	Data     string `json:"data" validate:"required"` // base64 data URL or raw base64
	PublicID string `json:"publicId"`                 // optional
}

// UploadImage handles base64 image upload to Cloudinary.
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if in.PublicID == "" {
		in.PublicID = utils.GenerateShortToken(8)
	}

	res, err := storage.UploadBase64Image(in.Data, in.PublicID)
	if err != nil {
		log.Println("image upload failed:", err)
		utils.JSONError(ctx, iris.StatusBadGateway, "upload_failed", "Image upload failed")
		return
	}

	ctx.JSON(iris.Map{"url": res.URL, "publicId": res.PublicID})
}
