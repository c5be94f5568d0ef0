package dto

import (
	"github.com/google/uuid"

	"smartmeet/internal/domains/user/model"
	"smartmeet/shared"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	gModel "smartmeet/shared/model"
	"smartmeet/shared/timezone"
)

type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin staff lecturer student"`
	Password string `json:"password"  validate:"omitempty,min=8"`
	Active   *bool  `json:"active"    validate:"omitempty"`
}

func (r *CreateUserRequest) ToModel(actor, hashedPassword string) model.User {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleStudent
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		FullName:   r.FullName,
		Role:       role,
		Active:     active,
		FirstLogin: true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

type UpdateUserRequest struct {
	FullName string  `db:"full_name" json:"full_name" validate:"omitempty,max=100"`
	Role     *string `db:"role"      json:"role"      validate:"omitempty,oneof=admin staff lecturer student"`
	Active   *bool   `db:"active"    json:"active"    validate:"omitempty"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	Active     bool    `json:"active"`
	FirstLogin bool    `json:"first_login"`
	LastLogin  *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Role = model.Role
	r.Active = model.Active
	r.FirstLogin = model.FirstLogin

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
