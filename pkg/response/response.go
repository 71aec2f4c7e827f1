package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess       = 0
	CodeParamError    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeServerError   = 500
	CodeBusinessError = 1000
)

// 钱包业务错误码
const (
	CodeInvalidAccount        = 1001 // 账户不存在、已停用或收款方定位缺失
	CodeInsufficientBalance   = 1002 // 余额不足
	CodeDailyLimitExceeded    = 1003 // 超出日限额
	CodeInvalidTransfer       = 1004 // 非法转账（如转给自己）
	CodeTransactionNotFound   = 1005 // 流水不存在（含查别人账户的流水）
	CodeAlreadyReversed       = 1006 // 重复退单/重复争议
	CodeCannotReverseReversal = 1007 // 冲正流水不能再次冲正
	CodeInvalidStatement      = 1008 // 对账单查询参数非法
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

func BusinessError(c *gin.Context, code int, message string) {
	Error(c, code, message)
}
