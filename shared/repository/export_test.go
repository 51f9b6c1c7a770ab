package repository

import "hotelbook/shared/dto"

func (repo *Repository[T]) OrderBy(params dto.QueryParams) string {
	return repo.orderBy(params)
}

func Paginate(params dto.QueryParams, args map[string]any) string {
	return paginate(params, args)
}
