package service

import (
	"fmt"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
)

// requireCaller rejects anonymous calls. Handlers behind RequireAuth never
// hit this; it keeps the services safe to call from elsewhere.
func requireCaller(caller *model.User) error {
	if caller == nil || caller.ID == "" {
		return apperror.Unauthenticated("login required")
	}
	return nil
}

// authorizeOwner is the ownership check for updates and deletes. It runs
// after the resource has been loaded, so a missing resource is always
// reported as not found rather than forbidden.
//
// Ownership is decided on the nickname recorded on the resource. Nicknames
// are unique and never change after registration, so this agrees with a
// comparison on user ids.
func authorizeOwner(caller *model.User, ownerNickname, resource string) error {
	if caller == nil || caller.Nickname != ownerNickname {
		return apperror.Forbidden(fmt.Sprintf("you are not allowed to modify this %s", resource))
	}
	return nil
}
