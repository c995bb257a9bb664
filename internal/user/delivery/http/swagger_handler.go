package http

// Register godoc
// @Summary Register an administrator
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Account data"
// @Success 201 {object} object{success=bool,message=string,data=object{user=object,token=string,token_type=string,expires_at=string}}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/register [post]
func (h *UserHandler) RegisterDoc() {}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,message=string,data=object{user=object,token=string,token_type=string,expires_at=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/login [post]
func (h *UserHandler) LoginDoc() {}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/user [get]
func (h *UserHandler) MeDoc() {}

// UpdateProfile godoc
// @Summary Update the current user's name and email
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string} true "Profile"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/profile [put]
func (h *UserHandler) UpdateProfileDoc() {}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{current_password=string,password=string,password_confirmation=string} true "Passwords"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/change-password [put]
func (h *UserHandler) ChangePasswordDoc() {}

// Refresh godoc
// @Summary Issue a fresh bearer token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object{user=object,token=string,token_type=string,expires_at=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/refresh [post]
func (h *UserHandler) RefreshDoc() {}

// TokenInfo godoc
// @Summary Describe the presented bearer token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{token_id=string,user_id=int,email=string,issued_at=string,expires_at=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/token-info [get]
func (h *UserHandler) TokenInfoDoc() {}
