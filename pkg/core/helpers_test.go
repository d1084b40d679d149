package core

import "strconv"

func fmtID(id int64) string {
	return strconv.FormatInt(id, 10)
}
