// 定义与数据库表字段对应的常量
// 订单状态以字符串形式存储，取值集合是封闭的，由 ParseOrderStatus 校验
package model

import "fmt"

// OrderStatus is the only mutable field of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the closed set offered by the console, in display order.
var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// Social platforms accepted in ContactInfo.SocialLinks.
const (
	SocialFacebook  = "facebook"
	SocialTwitter   = "twitter"
	SocialLinkedIn  = "linkedin"
	SocialInstagram = "instagram"
	SocialYouTube   = "youtube"
	SocialGitHub    = "github"
)

var SocialPlatforms = []string{SocialFacebook, SocialTwitter, SocialLinkedIn, SocialInstagram, SocialYouTube, SocialGitHub}
