package usecases

import (
	"errors"
	"testing"

	"smartdrishti-server/repositories"
	"smartdrishti-server/util"

	"github.com/onsi/gomega"
)

var testSecret = []byte("test-secret")

func newAuthUseCase(t *testing.T) *AuthUseCase {
	t.Helper()
	return NewAuthUseCase(repositories.NewUserPgRepository(newTestDB(t)), testSecret)
}

func TestRegisterAndLogin(t *testing.T) {
	g := gomega.NewWithT(t)
	uc := newAuthUseCase(t)

	user, token, err := uc.Register("alice", "alice@example.com", "hunter22", "")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(user.ID).NotTo(gomega.BeEmpty())
	g.Expect(user.Role).To(gomega.Equal("student"))
	g.Expect(user.PasswordHash).NotTo(gomega.Equal("hunter22"))

	claims, err := util.ValidateJWT(token, testSecret)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(claims.UserID).To(gomega.Equal(user.ID))
	g.Expect(claims.Role).To(gomega.Equal("student"))

	loggedIn, _, err := uc.Login("alice@example.com", "hunter22")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(loggedIn.ID).To(gomega.Equal(user.ID))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	g := gomega.NewWithT(t)
	uc := newAuthUseCase(t)

	_, _, err := uc.Register("alice", "alice@example.com", "hunter22", "")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	_, _, err = uc.Register("alice2", "alice@example.com", "hunter22", "")
	g.Expect(errors.Is(err, ErrDuplicate)).To(gomega.BeTrue())

	_, _, err = uc.Register("alice", "other@example.com", "hunter22", "")
	g.Expect(errors.Is(err, ErrDuplicate)).To(gomega.BeTrue())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	g := gomega.NewWithT(t)
	uc := newAuthUseCase(t)

	_, _, err := uc.Register("alice", "alice@example.com", "hunter22", "")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	_, _, err = uc.Login("alice@example.com", "wrong")
	g.Expect(errors.Is(err, ErrInvalidCredentials)).To(gomega.BeTrue())

	_, _, err = uc.Login("nobody@example.com", "hunter22")
	g.Expect(errors.Is(err, ErrInvalidCredentials)).To(gomega.BeTrue())
}

func TestUpdateProfile(t *testing.T) {
	g := gomega.NewWithT(t)
	uc := newAuthUseCase(t)

	user, _, err := uc.Register("alice", "alice@example.com", "hunter22", "instructor")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(user.Role).To(gomega.Equal("instructor"))

	_, _, err = uc.Register("bob", "bob@example.com", "hunter22", "")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	// Only the username changes; email survives.
	updated, err := uc.UpdateProfile(user.ID, "alice-new", "", "")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(updated.Username).To(gomega.Equal("alice-new"))
	g.Expect(updated.Email).To(gomega.Equal("alice@example.com"))

	// Taking another user's username is rejected.
	_, err = uc.UpdateProfile(user.ID, "bob", "", "")
	g.Expect(errors.Is(err, ErrDuplicate)).To(gomega.BeTrue())

	// Password change takes effect on the next login.
	_, err = uc.UpdateProfile(user.ID, "", "", "newpass123")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	_, _, err = uc.Login("alice@example.com", "newpass123")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	_, _, err = uc.Login("alice@example.com", "hunter22")
	g.Expect(errors.Is(err, ErrInvalidCredentials)).To(gomega.BeTrue())
}
