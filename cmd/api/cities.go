package main

import (
	"net/http"
)

type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// russiaCities is the static map seed: major cities with their center
// coordinates. Shops reference cities by name, this list only drives the
// frontend map.
var russiaCities = []City{
	{"Тюмень", 57.1522, 65.5272},
	{"Ишим", 56.1127, 69.4878},
	{"Заводоуковск", 56.5068, 66.5508},
	{"Североуральск", 60.1572, 59.9522},
	{"Ивдель", 60.6925, 60.4278},
	{"Москва", 55.7558, 37.6173},
	{"Санкт-Петербург", 59.9343, 30.3351},
	{"Новосибирск", 55.0084, 82.9357},
	{"Екатеринбург", 56.8389, 60.6057},
	{"Казань", 55.8304, 49.0661},
	{"Нижний Новгород", 56.2965, 43.9361},
	{"Челябинск", 55.1644, 61.4368},
	{"Самара", 53.2001, 50.1500},
	{"Омск", 54.9885, 73.3242},
	{"Ростов-на-Дону", 47.2357, 39.7015},
	{"Уфа", 54.7388, 55.9721},
	{"Красноярск", 56.0153, 92.8932},
	{"Воронеж", 51.6605, 39.2005},
	{"Пермь", 58.0105, 56.2502},
	{"Волгоград", 48.7080, 44.5133},
	{"Краснодар", 45.0355, 38.9753},
	{"Саратов", 51.5924, 46.0348},
	{"Тольятти", 53.5303, 49.3461},
	{"Ижевск", 56.8519, 53.2048},
	{"Барнаул", 53.3547, 83.7697},
	{"Ульяновск", 54.3142, 48.4031},
	{"Иркутск", 52.2869, 104.3050},
	{"Хабаровск", 48.4827, 135.0838},
	{"Ярославль", 57.6261, 39.8845},
	{"Владивосток", 43.1332, 131.9113},
	{"Махачкала", 42.9849, 47.5047},
	{"Томск", 56.4977, 84.9744},
	{"Оренбург", 51.7727, 55.0988},
	{"Кемерово", 55.3547, 86.0586},
	{"Новокузнецк", 53.7596, 87.1216},
	{"Рязань", 54.6269, 39.6916},
	{"Астрахань", 46.3497, 48.0408},
	{"Набережные Челны", 55.7430, 52.3977},
	{"Пенза", 53.2007, 45.0046},
	{"Киров", 58.6035, 49.6680},
	{"Липецк", 52.6103, 39.5698},
	{"Чебоксары", 56.1439, 47.2489},
	{"Калининград", 54.7104, 20.4522},
	{"Тула", 54.1961, 37.6182},
	{"Курск", 51.7373, 36.1873},
	{"Ставрополь", 45.0428, 41.9734},
	{"Сочи", 43.6028, 39.7342},
	{"Улан-Удэ", 51.8272, 107.6063},
	{"Тверь", 56.8587, 35.9176},
	{"Магнитогорск", 53.4117, 58.9794},
	{"Иваново", 57.0000, 40.9737},
	{"Брянск", 53.2521, 34.3717},
	{"Белгород", 50.5997, 36.5982},
	{"Нижний Тагил", 57.9197, 59.9650},
	{"Архангельск", 64.5401, 40.5433},
	{"Владимир", 56.1366, 40.3966},
	{"Калуга", 54.5293, 36.2754},
	{"Чита", 52.0330, 113.4994},
	{"Смоленск", 54.7818, 32.0401},
	{"Волжский", 48.7854, 44.7511},
	{"Курган", 55.4500, 65.3333},
	{"Череповец", 59.1333, 37.9000},
	{"Орёл", 52.9651, 36.0785},
	{"Вологда", 59.2239, 39.8843},
	{"Мурманск", 68.9585, 33.0827},
	{"Петрозаводск", 61.7849, 34.3469},
	{"Сыктывкар", 61.6681, 50.8067},
	{"Северодвинск", 64.5635, 39.8302},
	{"Великий Новгород", 58.5213, 31.2751},
	{"Псков", 57.8136, 28.3496},
	{"Петропавловск-Камчатский", 53.0245, 158.6433},
	{"Норильск", 69.3558, 88.1893},
	{"Нарьян-Мар", 67.6380, 53.0069},
	{"Салехард", 66.5297, 66.6014},
	{"Якутск", 62.0355, 129.6755},
	{"Благовещенск", 50.2666, 127.5278},
	{"Южно-Сахалинск", 46.9590, 142.7386},
	{"Магадан", 59.5638, 150.8027},
	{"Комсомольск-на-Амуре", 50.5497, 137.0078},
	{"Находка", 42.8133, 132.8735},
	{"Абакан", 53.7215, 91.4425},
	{"Братск", 56.1515, 101.6140},
	{"Ангарск", 52.5406, 103.8886},
	{"Усть-Илимск", 58.0006, 102.6617},
	{"Анадырь", 64.7339, 177.5080},
	{"Южно-Курильск", 44.0298, 145.8649},
}

// getCitiesHandler godoc
//
//	@Summary		List cities
//	@Description	Static list of cities with map coordinates
//	@Tags			directory
//	@Produce		json
//	@Success		200	{object}	map[string][]City
//	@Router			/cities [get]
func (app *application) getCitiesHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string][]City{"cities": russiaCities}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
