package errCode

type ErrCode int

const (
	INVALID_VALUE         ErrCode = iota + 1 // 非法取值
	EMPTY_VALUE                              // 空输入
	INVALID_PARAMETER                        // 窗口/分箱参数非法
	PRECONDITION_VIOLATED                    // 前置条件不成立, 如spike未升序
)

func (c ErrCode) String() string {
	switch c {
	case INVALID_VALUE:
		return "INVALID_VALUE"
	case EMPTY_VALUE:
		return "EMPTY_VALUE"
	case INVALID_PARAMETER:
		return "INVALID_PARAMETER"
	case PRECONDITION_VIOLATED:
		return "PRECONDITION_VIOLATED"
	default:
		return "UNKNOWN"
	}
}
