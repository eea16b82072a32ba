package redis

import (
	"fmt"

	"github.com/mcoot/sprig-core/internal/model"
)

// Key prefix for all sprig data
const keyPrefix = "sprig"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// userEmailIndexKey returns the Redis key for the LIST of user IDs with an email, oldest first
func userEmailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:user_email:%s", keyPrefix, email)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// loginCodeKey returns the Redis key for a LoginCode
func loginCodeKey(id model.LoginCodeID) string {
	return fmt.Sprintf("%s:login_code:%s", keyPrefix, id)
}

// loginCodesForUserIndexKey returns the Redis key for the SET of login code keys for a user
func loginCodesForUserIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:login_codes_for_user:%s", keyPrefix, userID)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// snapshotKey returns the Redis key for a Snapshot
func snapshotKey(id model.SnapshotID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, id)
}
