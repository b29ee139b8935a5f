package routes

import (
	"log"

	"github.com/kataras/iris/v12"

	"github.com/marouan1337/oussaaaa/services"
	"github.com/marouan1337/oussaaaa/storage"
)

// contactDirectory is swapped for a fake in tests.
var contactDirectory services.UserDirectory

// GetContactInfo resolves the WhatsApp number for the public contact
// button: admin's number, else the earliest user's, else the default.
// The caller always gets a usable number, even when the store fails.
func GetContactInfo(ctx iris.Context) {
	dir := contactDirectory
	if dir == nil {
		dir = services.NewUserDirectory(storage.Users)
	}

	info, err := services.ResolveContactInfo(ctx.Request().Context(), dir)
	if err != nil {
		log.Println("contact info lookup failed:", err)
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Error fetching contact info", "whatsappNumber": info.WhatsappNumber})
		return
	}

	ctx.JSON(iris.Map{"whatsappNumber": info.WhatsappNumber})
}
