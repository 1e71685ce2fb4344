// Package seed inserts the app's built-in catalog content on first boot.
// Each catalog is guarded by a preference flag so a wiped table is not
// reseeded once a deployment has marked itself done.
package seed

import (
	"gorm.io/gorm"

	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

const (
	keySeededFm         = "seeded_fm"
	keySeededCatProfile = "seeded_cat_profile"
	keySeededWiki       = "seeded_wiki"

	flagDone = "1"
)

// Run seeds every catalog that has not been seeded yet.
func Run(db *gorm.DB, prefs checkin.Prefs, wikiSlug string) error {
	if err := seedFmTracks(db, prefs); err != nil {
		return err
	}
	if err := seedCatProfiles(db, prefs); err != nil {
		return err
	}
	return seedWiki(db, prefs, wikiSlug)
}

func seeded(prefs checkin.Prefs, key string) (bool, error) {
	v, ok, err := prefs.GetString(key)
	if err != nil {
		return false, err
	}
	return ok && v == flagDone, nil
}

func markSeeded(prefs checkin.Prefs, key string) error {
	return prefs.Edit(func(e checkin.Editor) {
		e.PutString(key, flagDone)
	})
}

func seedFmTracks(db *gorm.DB, prefs checkin.Prefs) error {
	done, err := seeded(prefs, keySeededFm)
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	var count int64
	if err := db.Model(&models.FmTrack{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(defaultFmTracks()).Error; err != nil {
			return err
		}
		utils.Sugar.Infow("seeded default fm tracks", "count", len(defaultFmTracks()))
	}
	return markSeeded(prefs, keySeededFm)
}

func seedCatProfiles(db *gorm.DB, prefs checkin.Prefs) error {
	done, err := seeded(prefs, keySeededCatProfile)
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	var count int64
	if err := db.Model(&models.CatProfile{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(defaultCatProfiles()).Error; err != nil {
			return err
		}
		utils.Sugar.Infow("seeded default cat profiles", "count", len(defaultCatProfiles()))
	}
	return markSeeded(prefs, keySeededCatProfile)
}

func seedWiki(db *gorm.DB, prefs checkin.Prefs, slug string) error {
	done, err := seeded(prefs, keySeededWiki)
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	var count int64
	if err := db.Model(&models.WikiPage{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		page := models.WikiPage{
			Slug:  slug,
			Title: "猫咪百科",
			HTML:  defaultWikiHTML,
		}
		if err := db.Create(&page).Error; err != nil {
			return err
		}
		utils.Sugar.Infow("seeded default wiki page", "slug", slug)
	}
	return markSeeded(prefs, keySeededWiki)
}

func defaultFmTracks() []models.FmTrack {
	return []models.FmTrack{
		{Title: "if_you", Subtitle: "柔和节奏里的一句呢喃，像在耳边轻声问候。"},
		{Title: "no基米", Subtitle: "俏皮的拒绝里带点幽默，轻轻摇头也能上头。"},
		{Title: "不得不哈", Subtitle: "欢快的旋律里藏着停不下来的笑意。"},
		{Title: "不再曼波", Subtitle: "跳脱出舞池的束缚，转身就是新的律动。"},
		{Title: "出哈", Subtitle: "一声清爽的招呼，像打开新篇章的开场白。"},
		{Title: "打火基", Subtitle: "火花点亮节拍，热烈氛围瞬间燃起。"},
		{Title: "粉红色的基米", Subtitle: "梦幻粉色滤镜下的轻快冒险，甜而不腻。"},
		{Title: "关山哈", Subtitle: "穿过关山的风声，带来一阵爽朗的笑。"},
		{Title: "哈基米起床", Subtitle: "慵懒清晨的伸展，伴随轻快的叫醒曲。"},
		{Title: "哈沫", Subtitle: "泡沫破裂的瞬间，留下一抹轻盈的愉悦。"},
		{Title: "基米_to_the_moon", Subtitle: "逐月的步伐，伴着电子心跳一路上升。"},
		{Title: "基米说", Subtitle: "像讲故事般的旋律，每句都带点俏皮。"},
		{Title: "蓝莲哈", Subtitle: "蓝色莲花的清凉与一声爽朗的笑交织。"},
		{Title: "两个哈基米", Subtitle: "双人合声的默契，笑点与节拍同步。"},
		{Title: "舌尖上的哈基米", Subtitle: "滋味与律动交织，像是在嘴里跳舞。"},
		{Title: "跳楼基", Subtitle: "急速下坠的心跳感，被节奏接住的瞬间。"},
		{Title: "往事只能哈基", Subtitle: "回忆里的一声笑，将旧时光轻轻带回。"},
		{Title: "唯一哈基米", Subtitle: "独一份的旋律，像专属的密语。"},
		{Title: "悬疑哈基米", Subtitle: "神秘的节拍里藏着俏皮的伏笔。"},
		{Title: "最后一哈", Subtitle: "收尾的一声轻笑，让整段旅程圆满。"},
	}
}

func defaultCatProfiles() []models.CatProfile {
	return []models.CatProfile{
		{Title: "雪团", Personality: "白猫", Age: "2 岁", Description: "安静黏人，最爱晒太阳的小白团子。"},
		{Title: "丝绒", Personality: "波斯猫", Age: "4 岁", Description: "高贵慵懒，喜欢待在安静的角落躺平。"},
		{Title: "小博士", Personality: "博学猫", Age: "3 岁", Description: "机灵好奇，总在翻书架和观察人类。"},
		{Title: "奶茶", Personality: "布偶猫", Age: "2 岁", Description: "软绵绵地任人抱，黏人又温柔。"},
		{Title: "夜影", Personality: "黑猫", Age: "3 岁", Description: "动作敏捷，夜里巡逻像个小守护。"},
		{Title: "金宝", Personality: "黄猫", Age: "4 岁", Description: "性格阳光，爱蹭人讨摸摸。"},
		{Title: "柚子", Personality: "橘猫", Age: "5 岁", Description: "饭点准时，撒娇卖萌第一名。"},
		{Title: "雾蓝", Personality: "蓝猫", Age: "2 岁", Description: "沉稳安静，偶尔发呆看窗外。"},
		{Title: "狸狸", Personality: "狸花猫", Age: "3 岁", Description: "机警灵活，捕虫和玩逗猫棒都很带劲。"},
		{Title: "小喵", Personality: "猫", Age: "1 岁", Description: "活力满满，对一切都充满好奇。"},
		{Title: "灰爵", Personality: "美短猫", Age: "2 岁", Description: "外向亲人，最爱追逐小球。"},
		{Title: "笑眯", Personality: "眯眯眼猫", Age: "4 岁", Description: "整天眯着眼笑，性格佛系好脾气。"},
		{Title: "雪松", Personality: "缅因猫", Age: "5 岁", Description: "体型大却温柔，像个大哥哥照顾大家。"},
		{Title: "奶糖", Personality: "牛奶猫", Age: "1 岁", Description: "甜甜软软，喜欢蜷在怀里呼噜。"},
		{Title: "花羽", Personality: "三花猫", Age: "3 岁", Description: "独立又机灵，偶尔会撒娇求陪伴。"},
		{Title: "憨豆", Personality: "傻猫", Age: "2 岁", Description: "有点迷糊，总闹出可爱的笑话。"},
		{Title: "阿土", Personality: "田园猫", Age: "4 岁", Description: "性格随和，喜欢庭院里晒太阳。"},
		{Title: "赛博", Personality: "无毛猫", Age: "3 岁", Description: "好奇心爆棚，喜欢贴着人类取暖。"},
		{Title: "摩卡", Personality: "暹罗猫", Age: "2 岁", Description: "爱聊天，声线软糯黏人又聪明。"},
		{Title: "骑士", Personality: "英短猫", Age: "3 岁", Description: "稳重绅士范儿，温顺地陪在身边。"},
	}
}

const defaultWikiHTML = `<h1>猫咪百科</h1>
<p>欢迎来到喵喵百科，这里收录了常见猫咪品种的介绍与日常照护要点。</p>
<h2>常见品种</h2>
<ul>
<li><strong>橘猫</strong>：大多亲人贪吃，体型偏圆。</li>
<li><strong>狸花猫</strong>：机警敏捷，适应力强。</li>
<li><strong>布偶猫</strong>：性格温顺，喜欢被抱。</li>
<li><strong>英短猫</strong>：沉稳安静，毛质厚实。</li>
</ul>
<h2>日常照护</h2>
<ul>
<li>保证清洁饮水，干粮湿粮搭配。</li>
<li>每日梳毛，长毛猫尤其需要。</li>
<li>定期驱虫与疫苗接种。</li>
</ul>`
