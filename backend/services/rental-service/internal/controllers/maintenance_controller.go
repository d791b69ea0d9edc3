package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// maxImages caps the number of files accepted per case.
const maxImages = 10

type MaintenanceController struct {
	cases         services.MaintenanceService
	maxImageBytes int64
}

func NewMaintenanceController(cases services.MaintenanceService, maxImageBytes int64) *MaintenanceController {
	return &MaintenanceController{cases: cases, maxImageBytes: maxImageBytes}
}

// POST /api/v1/tenancies/{id}/maintenance (multipart/form-data)
// Fields: title, description, images (repeated file field).
func (c *MaintenanceController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	tenancyID, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxImageBytes*maxImages+1<<20)
	if err := r.ParseMultipartForm(c.maxImageBytes); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid multipart form", nil, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fields := dtos.SubmitMaintenanceFields{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := validate.Struct(fields); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) > maxImages {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Too many images", nil)
		return
	}

	uploads, files, err := c.openImages(headers)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	mc, err := c.cases.Submit(r.Context(), sess, tenancyID, fields.Title, fields.Description, uploads)
	if err != nil {
		respondServiceError(w, err, "Failed to submit maintenance request")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewMaintenanceCaseResponse(mc))
}

// openImages returns the files it opened even on error so the caller can
// close them.
func (c *MaintenanceController) openImages(headers []*multipart.FileHeader) ([]services.ImageUpload, []multipart.File, error) {
	uploads := make([]services.ImageUpload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > c.maxImageBytes {
			return nil, files, &utils.AppError{
				StatusCode: http.StatusRequestEntityTooLarge,
				Code:       utils.ErrCodeValidation,
				Message:    "Image " + fh.Filename + " is too large",
			}
		}
		f, err := fh.Open()
		if err != nil {
			return nil, files, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeInvalidPayload,
				Message:    "Unreadable image",
				Err:        err,
			}
		}
		files = append(files, f)
		uploads = append(uploads, services.ImageUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, files, nil
}

// GET /api/v1/tenancies/{id}/maintenance?status=
func (c *MaintenanceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	tenancyID, ok := pathID(w, r)
	if !ok {
		return
	}
	cases, err := c.cases.ListMine(r.Context(), sess, tenancyID, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err, "Failed to list maintenance requests")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewMaintenanceListResponse(cases))
}
