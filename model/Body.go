package model

// SignupBody define the body struct of the signup route
type SignupBody struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginBody define the body struct of the login route;
// either username or email identifies the account
type LoginBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateBody define the body struct of the profile update route.
// Empty fields are left unchanged.
type UpdateBody struct {
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	Link            string `json:"link"`
	ProfileImg      string `json:"profileImg"`
	CoverImg        string `json:"coverImg"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
