package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	"smartmeet/internal/domains/document/model"
	"smartmeet/shared"
	gDto "smartmeet/shared/dto"
	gModel "smartmeet/shared/model"
	"smartmeet/shared/timezone"
)

type UploadDocumentRequest struct {
	Name      string                `json:"name"       validate:"omitempty,max=150"`
	BookingID *string               `json:"booking_id" validate:"omitempty"`
	Public    *bool                 `json:"public"     validate:"omitempty"`
	File      *multipart.FileHeader `json:"file"       validate:"required,mimetypes=application/pdf image/png image/jpeg text/plain application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document application/vnd.openxmlformats-officedocument.spreadsheetml.sheet application/vnd.openxmlformats-officedocument.presentationml.presentation,maxfilesize=10"`
	FileData  multipart.File        `json:"-"`
}

func (r *UploadDocumentRequest) ToModel(user, url, objectKey, mimeType string, size int64) model.Document {
	name := r.Name
	if name == "" && r.File != nil {
		name = r.File.Filename
	}

	public := false
	if r.Public != nil {
		public = *r.Public
	}

	return model.Document{
		ID:        uuid.NewString(),
		Name:      name,
		BookingID: r.BookingID,
		OwnerID:   user,
		URL:       url,
		ObjectKey: objectKey,
		MimeType:  mimeType,
		Size:      size,
		Public:    public,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type DocumentResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BookingID *string `json:"booking_id,omitempty"`
	OwnerID   string  `json:"owner_id"`
	URL       string  `json:"url"`
	MimeType  string  `json:"mime_type"`
	Size      int64   `json:"size"`
	Public    bool    `json:"public"`
	gDto.Metadata
}

func (r *DocumentResponse) FromModel(model model.Document) {
	r.ID = model.ID
	r.Name = model.Name
	r.BookingID = model.BookingID
	r.OwnerID = model.OwnerID
	r.URL = model.URL
	r.MimeType = model.MimeType
	r.Size = model.Size
	r.Public = model.Public
	r.Metadata.FromModel(model.Metadata)
}

type GetDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetDocumentsResponse) FromModels(models []model.Document, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Documents = make([]DocumentResponse, len(models))
	for i, mod := range models {
		r.Documents[i].FromModel(mod)
	}
}
