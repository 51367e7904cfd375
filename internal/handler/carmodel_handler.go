package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/blobstore"
	"carmodel-inventory/internal/reconcile"
	"carmodel-inventory/internal/repository"
	"carmodel-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CarModelHandler struct {
	service service.CarModelService
}

func NewCarModelHandler(s service.CarModelService) *CarModelHandler {
	return &CarModelHandler{service: s}
}

// Register mounts the record routes on r; guard protects the mutating ones.
func (h *CarModelHandler) Register(r fiber.Router, guard fiber.Handler) {
	r.Get("/", h.GetCarModels)
	r.Post("/", guard, h.CreateCarModel)
	r.Put("/edit/:id", guard, h.UpdateCarModel)
	r.Get("/:id", h.GetCarModel)
	r.Delete("/:id", guard, h.DeleteCarModel)
}

func (h *CarModelHandler) GetCarModels(c *fiber.Ctx) error {
	models, err := h.service.List()
	if err != nil {
		log.Printf("list car models: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(models)
}

func (h *CarModelHandler) GetCarModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid car model ID"})
	}
	m, err := h.service.Get(id)
	if err != nil {
		return writeError(c, err, "Internal Server Error")
	}
	return c.JSON(m)
}

func (h *CarModelHandler) CreateCarModel(c *fiber.Ctx) error {
	var fields reconcile.Fields
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form data"})
	}
	files, err := readUploads(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	m, err := h.service.Create(c.UserContext(), fields, files)
	if err != nil {
		return writeError(c, err, "Failed to save car model")
	}
	return c.Status(201).JSON(m)
}

func (h *CarModelHandler) UpdateCarModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid car model ID"})
	}

	var fields reconcile.Fields
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form data"})
	}
	kept, err := readKept(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	files, err := readUploads(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	m, err := h.service.Update(c.UserContext(), id, fields, kept, files)
	if err != nil {
		return writeError(c, err, "Error updating car model")
	}
	return c.JSON(m)
}

func (h *CarModelHandler) DeleteCarModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid car model ID"})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err, "Error deleting car model")
	}
	return c.JSON(fiber.Map{"message": "Car model deleted"})
}

// writeError maps service errors to statuses; anything unexpected is logged
// and answered with fallback.
func writeError(c *fiber.Ctx, err error, fallback string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(400).JSON(fiber.Map{"error": verr.Message})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Car model not found"})
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": fallback})
}

// readKept decodes the existingImages part. An absent part yields nil.
func readKept(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	values, ok := form.Value["existingImages"]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	kept := []string{}
	if err := json.Unmarshal([]byte(values[0]), &kept); err != nil {
		return nil, errors.New("existingImages must be a JSON array of strings")
	}
	return kept, nil
}

// readUploads reads the images parts in order. Oversize parts are read
// one byte past the ceiling so the service can reject them.
func readUploads(c *fiber.Ctx) ([]attachment.Blob, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File["images"]
	blobs := make([]attachment.Blob, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, errors.New("Failed to read uploaded image")
		}
		data, err := io.ReadAll(io.LimitReader(f, attachment.MaxBlobSize+1))
		f.Close()
		if err != nil {
			return nil, errors.New("Failed to read uploaded image")
		}
		blobs = append(blobs, attachment.Blob{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return blobs, nil
}

// AssetHandler streams stored images under the asset path.
type AssetHandler struct {
	blobs blobstore.Store
}

func NewAssetHandler(blobs blobstore.Store) *AssetHandler {
	return &AssetHandler{blobs: blobs}
}

func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	rc, contentType, err := h.blobs.Open(c.UserContext(), c.Params("key"))
	if errors.Is(err, blobstore.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Image not found"})
	}
	if err != nil {
		log.Printf("open asset %s: %v", c.Params("key"), err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(rc)
}
