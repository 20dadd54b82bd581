package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/twinj/uuid"
)

// AuthController issues a token for the admin frontend. The public API stays
// open; only the admin screens ask for this.
type AuthController struct {
	AccessSecret  string
	AdminUser     string
	AdminPassword string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (aController *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	b, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	var request loginRequest

	if err = json.Unmarshal(b, &request); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Requête invalide"})
		return
	}

	if aController.AdminUser == "" || request.Username != aController.AdminUser || request.Password != aController.AdminPassword {
		w.WriteHeader(http.StatusUnauthorized)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "1", "message": "Identifiants invalides"})
		return
	}

	accessToken, err := aController.createToken(request.Username)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "6", "message": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"access_token": accessToken})
}

func (aController *AuthController) createToken(username string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["access_uuid"] = uuid.NewV4().String()
	claims["user"] = username
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(aController.AccessSecret))
}

func (aController *AuthController) extractToken(r *http.Request) string {
	bearToken := r.Header.Get("Authorization")

	strArr := strings.Split(bearToken, " ")
	if len(strArr) == 2 {
		return strArr[1]
	}

	return ""
}

// Verify reports whether the presented bearer token is still valid.
func (aController *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	tokenString := aController.extractToken(r)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(aController.AccessSecret), nil
	})

	if err != nil || !token.Valid {
		w.WriteHeader(http.StatusUnauthorized)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "1", "message": "Jeton invalide"})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "error_code": "-1"})
}
