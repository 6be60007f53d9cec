package dto

import (
	authDomain "github.com/allisson/dmvault/internal/auth/domain"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// UserResponse represents a user in API responses. It never includes the
// password hash.
type UserResponse struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// MeEnvelope wraps the caller description.
type MeEnvelope struct {
	User MeResponse `json:"user"`
}

// ListUsersResponse wraps a user list.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *userDomain.User) UserEnvelope {
	return UserEnvelope{
		User: UserResponse{
			Login:       user.Login,
			DisplayName: user.DisplayName,
		},
	}
}

// MapPrincipalToResponse converts the authenticated caller to an API response.
func MapPrincipalToResponse(principal *authDomain.Principal) MeEnvelope {
	return MeEnvelope{
		User: MeResponse{
			Login:       principal.Login,
			DisplayName: principal.DisplayName,
			Admin:       principal.Admin,
		},
	}
}

// MapUsersToListResponse converts user summaries to an API response, leaving
// out the login given in exclude (if any).
func MapUsersToListResponse(users []userDomain.UserSummary, exclude string) ListUsersResponse {
	resp := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		if exclude != "" && u.Login == exclude {
			continue
		}
		resp.Users = append(resp.Users, UserResponse{Login: u.Login, DisplayName: u.DisplayName})
	}
	return resp
}
