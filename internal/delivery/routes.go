package delivery

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, hGen *GenerateHandler, hMedia *MediaHandler, hSocial *SocialHandler) {

	// generation
	r.Post("/generate", hGen.Generate)
	r.Post("/manim", hGen.Manim)
	r.Post("/generate_image", hGen.GenerateImage)

	// library
	r.Get("/media", hMedia.List)
	r.Delete("/media/{id}", hMedia.Delete)
	r.Delete("/article/{id}", hMedia.DeleteArticle)

	// publishing
	r.Post("/x_post", hSocial.Post)
}
