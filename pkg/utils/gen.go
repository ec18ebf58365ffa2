package utils

import (
	"fmt"

	"Printhub/pkg/snowflake"

	"github.com/speps/go-hashids/v2"
)

// GenerateOrderSn 订单号，雪花ID 保证全局唯一且大致递增
func GenerateOrderSn() string {
	return fmt.Sprintf("PH%d", snowflake.GenID())
}

// GenHashID 对内部自增 ID 做混淆，用于对外的报价单编号
func GenHashID(salt string, id int) string {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 12
	h, _ := hashids.NewWithData(hd)
	e, _ := h.Encode([]int{id})
	return e
}
