package constants

// 音频分类常量
const (
	AudioCategoryArts       = "Arts"
	AudioCategoryBusiness   = "Business"
	AudioCategoryEducation  = "Education"
	AudioCategoryEntertain  = "Entertainment"
	AudioCategoryKidsFamily = "Kids & Family"
	AudioCategoryMusic      = "Music"
	AudioCategoryScience    = "Science"
	AudioCategoryTech       = "Tech"
	AudioCategoryOthers     = "Others"
)

// AudioCategories 全部音频分类
var AudioCategories = []string{
	AudioCategoryArts,
	AudioCategoryBusiness,
	AudioCategoryEducation,
	AudioCategoryEntertain,
	AudioCategoryKidsFamily,
	AudioCategoryMusic,
	AudioCategoryScience,
	AudioCategoryTech,
	AudioCategoryOthers,
}

// IsAudioCategory 判断分类是否合法
func IsAudioCategory(category string) bool {
	for _, c := range AudioCategories {
		if c == category {
			return true
		}
	}
	return false
}

// 邮件模板类型常量
const (
	MailKindVerification = "verification"
	MailKindResetLink    = "reset_link"
	MailKindResetDone    = "reset_done"
)

// 媒体上传场景常量
const (
	MediaSceneAvatar = "avatar"
	MediaSceneAudio  = "audio"
	MediaScenePoster = "poster"
)

// 验证码场景常量
const (
	CaptchaSceneSignup = "signup"
	CaptchaSceneSignin = "signin"
)

// 队列名称常量
const (
	QueueDefault = "default"
	QueueMail    = "mail"
)

// 任务类型常量
const (
	TaskMailDeliver = "mail:deliver"
)
