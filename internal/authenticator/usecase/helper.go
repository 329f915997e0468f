package usecase

import "strconv"

func accountRef(id int64) string {
	return "Account: " + strconv.FormatInt(id, 10)
}
